package domain

import "testing"

func TestScoreEntity(t *testing.T) {
	tests := []struct {
		name           string
		queryStr       string
		title          string
		url            string
		expectPositive bool
	}{
		{
			name:           "exact match",
			queryStr:       "chatgpt",
			title:          "ChatGPT",
			url:            "https://chat.openai.com/",
			expectPositive: true,
		},
		{
			name:           "prefix match",
			queryStr:       "chat",
			title:          "ChatGPT",
			url:            "https://chat.openai.com/",
			expectPositive: true,
		},
		{
			name:           "substring match",
			queryStr:       "gpt",
			title:          "ChatGPT",
			url:            "https://chat.openai.com/",
			expectPositive: true,
		},
		{
			name:           "url match",
			queryStr:       "openai",
			title:          "Assistant",
			url:            "https://chat.openai.com/",
			expectPositive: true,
		},
		{
			name:           "no match",
			queryStr:       "xyz",
			title:          "ChatGPT",
			url:            "https://chat.openai.com/",
			expectPositive: false,
		},
		{
			name:           "multi-word match",
			queryStr:       "docker hub",
			title:          "Docker Hub",
			url:            "https://hub.docker.com/",
			expectPositive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookmark := &Bookmark{ID: "test-id", Title: tt.title, URL: tt.url}

			score := ScoreEntity(tt.queryStr, bookmark)

			if tt.expectPositive && score <= 0 {
				t.Errorf("Expected positive score, got %f", score)
			}
			if !tt.expectPositive && score > 0 {
				t.Errorf("Expected zero score, got %f", score)
			}
		})
	}
}

func TestScoreEntityEmptyQuery(t *testing.T) {
	if score := ScoreEntity("   ", &Bookmark{Title: "x", URL: "https://x"}); score != 0 {
		t.Errorf("empty query should score 0, got %f", score)
	}
	if score := ScoreEntity("x", nil); score != 0 {
		t.Errorf("nil entity should score 0, got %f", score)
	}
}

func TestScoreEntityFolderIgnoresURL(t *testing.T) {
	folder := NewFolder("f1", "Work", nil, nil)
	if score := ScoreEntity("work", folder); score <= 0 {
		t.Errorf("folder title should match, got %f", score)
	}
}

func TestRankEntities(t *testing.T) {
	entities := []Entity{
		&Bookmark{ID: "1", Title: "GitHub", URL: "https://github.com"},
		&Bookmark{ID: "2", Title: "GitLab", URL: "https://gitlab.com"},
		&Bookmark{ID: "3", Title: "Git", URL: "https://git-scm.com"},
		&Bookmark{ID: "4", Title: "Weather", URL: "https://weather.example"},
	}

	ranked := RankEntities("git", entities, 0)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ranked))
	}
	if ranked[0].Entity.EntityID() != "3" {
		t.Errorf("exact title match should rank first, got %s", ranked[0].Entity.EntityTitle())
	}
	// GitHub and GitLab tie on prefix, input order is kept
	if ranked[1].Entity.EntityID() != "1" || ranked[2].Entity.EntityID() != "2" {
		t.Errorf("ties should keep input order, got %s, %s",
			ranked[1].Entity.EntityTitle(), ranked[2].Entity.EntityTitle())
	}

	limited := RankEntities("git", entities, 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied, got %d", len(limited))
	}
}
