package model

import "time"

// PageStat is one GA4 top-pages row.
type PageStat struct {
	Title          string  `json:"page_title"`
	Path           string  `json:"page_path"`
	Views          int     `json:"page_views"`
	EngagementRate float64 `json:"engagement_rate"` // percent, one decimal
}

// QueryStat is one Search Console query row.
type QueryStat struct {
	Query       string  `json:"query"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`      // percent
	Position    float64 `json:"position"` // average rank
}

// PageRank is one Search Console page-level row, used for fast-ranker detection.
type PageRank struct {
	Page        string  `json:"page"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// FeedArticle is one article pulled from an RSS feed or a Google News query.
type FeedArticle struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	URL       string    `json:"url"`
	Published time.Time `json:"published"`
}

// TrendTopic is one trending keyword with its search-interest index.
type TrendTopic struct {
	Keyword string `json:"keyword"`
	Value   int    `json:"value"` // 0-100
	Rank    int    `json:"rank"`  // 1 = highest interest
}

// CrawledPage is an extracted summary of one of the site's own top pages.
type CrawledPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// Tier is the data-confidence bucket of an idea, computed from its signals.
type Tier string

const (
	TierA Tier = "A" // all three signals populated
	TierB Tier = "B" // exactly two
	TierC Tier = "C" // zero or one
)

// Signals holds the per-source evidence backing an idea. Empty string means
// the source contributed nothing.
type Signals struct {
	GA4 string `json:"ga4"`
	GSC string `json:"gsc"`
	RSS string `json:"rss"`
}

// Populated returns how many of the three slots carry text.
func (s Signals) Populated() int {
	n := 0
	for _, v := range []string{s.GA4, s.GSC, s.RSS} {
		if v != "" {
			n++
		}
	}
	return n
}

// Reference links an idea to a concrete source article.
type Reference struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Idea is one content recommendation produced by the idea pipeline.
// Tier is assigned by the scoring engine after generation, never by the model.
type Idea struct {
	Title      string      `json:"title"`
	WhyNow     string      `json:"why_now"`
	Category   string      `json:"category"`
	Signals    Signals     `json:"signals"`
	References []Reference `json:"rss_links"`
	Tier       Tier        `json:"tier"`
}

// Section is one heading/body block of an article.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Article is the writer output; the fact-check stage rewrites it in place.
type Article struct {
	Title           string    `json:"title"`
	Lead            string    `json:"lead"`
	Sections        []Section `json:"sections"`
	MetaDescription string    `json:"meta_description"`
}

// Empty reports whether the article carries no content at all.
func (a Article) Empty() bool {
	return a.Title == "" && a.Lead == "" && len(a.Sections) == 0
}

// DimensionScores are the four 0-100 quality dimensions of an article review.
type DimensionScores struct {
	Authentizitaet int `json:"authentizitaet"`
	Tiefe          int `json:"tiefe"`
	Klarheit       int `json:"klarheit"`
	Relevanz       int `json:"relevanz"`
}

// Evaluation is the gate verdict over an article. Overall and Passed are
// always recomputed from Scores; whatever the model claimed is discarded.
type Evaluation struct {
	Scores   DimensionScores `json:"scores"`
	Overall  int             `json:"overall"`
	Passed   bool            `json:"passed"`
	Feedback string          `json:"feedback"` // empty iff passed
}

// SocialTexts bundles the channel snippets derived from a finished article.
type SocialTexts struct {
	LinkedIn         string `json:"linkedin"`
	Twitter          string `json:"twitter"`
	NewsletterTeaser string `json:"newsletter_teaser"`
}

// SEOOpportunity is one ranked traffic opportunity (fast-ranker or CTR gap).
type SEOOpportunity struct {
	Type            string  `json:"type"` // "fast_ranker" or "ctr_gap"
	Label           string  `json:"label"`
	URL             string  `json:"url,omitempty"`
	Keyword         string  `json:"keyword,omitempty"`
	CurrentPosition float64 `json:"current_position"`
	TargetPosition  int     `json:"target_position,omitempty"`
	CurrentCTR      float64 `json:"current_ctr_pct,omitempty"`
	MonthlyDelta    int     `json:"monthly_delta"`
}

// SEOPotential is the estimated monthly traffic headroom from GSC data.
type SEOPotential struct {
	FastRanker       int              `json:"fast_ranker_potential"`
	CTRGap           int              `json:"ctr_gap_potential"`
	Total            int              `json:"total_potential"`
	TopOpportunities []SEOOpportunity `json:"top_opportunities"`
}

// Snapshot holds everything the acquisition step fetched, so follow-up
// pipelines can reuse it without hitting the sources again.
type Snapshot struct {
	GA4Pages     []PageStat    `json:"ga4_pages"`
	GA4PagesLong []PageStat    `json:"ga4_pages_long"`
	GSCQueries   []QueryStat   `json:"gsc_queries"`
	GSCQueryLong []QueryStat   `json:"gsc_queries_long"`
	GSCPages     []PageRank    `json:"gsc_pages"`
	FeedArticles []FeedArticle `json:"rss_articles"`
	Trends       []TrendTopic  `json:"trends"`
	CrawledPages []CrawledPage `json:"crawled_pages"`
	SEOPotential SEOPotential  `json:"seo_potential"`
	FetchedAt    time.Time     `json:"fetched_at"`
}

// IdeaRunResult is the product of one idea-pipeline invocation.
type IdeaRunResult struct {
	RunID            string
	Ideas            []Idea
	AnalystOutput    string
	TrendScoutOutput string
	StrategistOutput string
	Warnings         []string
	Snapshot         Snapshot
	Timestamp        time.Time
}

// ContentRunResult is the product of one content-pipeline invocation.
type ContentRunResult struct {
	RunID         string
	Article       Article
	Evaluation    Evaluation
	ResearchNotes string
	RevisionCount int
	Social        SocialTexts
	Warnings      []string
}

// IdeaVerdict is the product of one evaluation-pipeline invocation.
type IdeaVerdict struct {
	Verdict        string   `json:"verdict"` // "Empfohlen" | "Mit Vorbehalt" | "Nicht empfohlen"
	Score          int      `json:"score"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Recommendation string   `json:"recommendation"`
	ContextNotes   string   `json:"-"`
	Warnings       []string `json:"-"`
}
