package filter

import "PharmaDigest/internal/domain"

// DefaultLimit is the shortlist size of a daily report.
const DefaultLimit = 5

// Select walks articles in order and keeps admissible ones until limit is reached,
// then backfills from the remaining articles in their original order. An article URL
// is never selected twice. The input slice is not modified.
func Select(articles []domain.Article, classifier *Classifier, limit int) []domain.Article {
	if limit <= 0 {
		limit = DefaultLimit
	}

	shortlist := make([]domain.Article, 0, limit)
	taken := make(map[string]struct{}, limit)

	for _, article := range articles {
		if len(shortlist) >= limit {
			break
		}
		if _, ok := taken[article.Key()]; ok {
			continue
		}
		verdict := classifier.Classify(article.Title + " " + article.Body)
		if !verdict.Admissible() {
			continue
		}
		taken[article.Key()] = struct{}{}
		shortlist = append(shortlist, article)
	}

	for _, article := range articles {
		if len(shortlist) >= limit {
			break
		}
		if _, ok := taken[article.Key()]; ok {
			continue
		}
		taken[article.Key()] = struct{}{}
		shortlist = append(shortlist, article)
	}

	return shortlist
}
