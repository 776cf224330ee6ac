package config

// ApplyDefaults sets default values for any zero values in cfg.
// Index.BoltPath and Feedback.DatabasePath have no default and stay disabled.
func ApplyDefaults(cfg *Config) {
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "data/papers.json"
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "data/re_idx.json"
	}
	if cfg.Index.ScoresPath == "" {
		cfg.Index.ScoresPath = "data/raw_scores.tsv"
	}
	if cfg.Segmenter.Dictionary == "" {
		cfg.Segmenter.Dictionary = "data/dictionary.txt"
	}
	if cfg.Segmenter.Stopwords == "" {
		cfg.Segmenter.Stopwords = "data/cn_stopwords.txt"
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TitleWeight == 0 {
		cfg.Search.TitleWeight = 5.0
	}
	if cfg.Search.AbstractWeight == 0 {
		cfg.Search.AbstractWeight = 1.0
	}
	if cfg.Search.AuthorWeight == 0 {
		cfg.Search.AuthorWeight = 50.0
	}
	if cfg.Search.KeywordWeight == 0 {
		cfg.Search.KeywordWeight = 10.0
	}
	if cfg.Search.HighlightOpen == "" {
		cfg.Search.HighlightOpen = "【"
	}
	if cfg.Search.HighlightClose == "" {
		cfg.Search.HighlightClose = "】"
	}
	if cfg.Feedback.LogPath == "" {
		cfg.Feedback.LogPath = "feedback.log"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}
