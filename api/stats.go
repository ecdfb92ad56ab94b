package api

import (
	"context"

	leafclient "github.com/ydcloud-dy/leaf-client"
)

// SiteStats is the payload of GET /stats.
type SiteStats struct {
	ArticleCount int64 `json:"article_count"`
	UserCount    int64 `json:"user_count"`
	CommentCount int64 `json:"comment_count"`
	TotalViews   int64 `json:"total_views"`
	TodayViews   int64 `json:"today_views"`
}

// HotArticle is one entry of GET /stats/hot-articles, the ten most viewed
// published articles.
type HotArticle struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"view_count"`
}

// Stats wraps the site statistics endpoints.
type Stats struct {
	client *leafclient.Client
}

func NewStats(client *leafclient.Client) *Stats {
	return &Stats{client: client}
}

// Site fetches the site-wide counters.
func (s *Stats) Site(ctx context.Context) (*SiteStats, error) {
	env, err := s.client.Get(ctx, "/stats")
	if err != nil {
		return nil, err
	}
	var stats SiteStats
	if err := env.DecodeData(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// HotArticles fetches the most viewed articles, capped server-side at ten.
func (s *Stats) HotArticles(ctx context.Context) ([]HotArticle, error) {
	env, err := s.client.Get(ctx, "/stats/hot-articles")
	if err != nil {
		return nil, err
	}
	var articles []HotArticle
	if err := env.DecodeData(&articles); err != nil {
		return nil, err
	}
	return articles, nil
}
