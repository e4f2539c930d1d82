package domain

import (
	"fmt"
	"net/url"
)

const shareExcerptLength = 80

func ShareText(item Item) string {
	excerpt := []rune(item.Description)
	if len(excerpt) > shareExcerptLength {
		excerpt = excerpt[:shareExcerptLength]
	}

	return fmt.Sprintf("Help find: %s... Lost in %s, %s. Reward: $%s",
		string(excerpt), item.City, item.Country, item.RewardAmount.String())
}

// TwitterIntentURL builds a tweet intent for text pointing at link.
func TwitterIntentURL(text, link string) string {
	q := url.Values{}
	q.Set("text", text)
	if link != "" {
		q.Set("url", link)
	}
	return "https://twitter.com/intent/tweet?" + q.Encode()
}
