package deeplink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	cases := []struct {
		name   string
		target Result
		want   string
	}{
		{"profile", Profile{UserID: "user123"}, "buyv://app/profile/user123"},
		{"post", Post{PostID: "post456"}, "buyv://app/post/post456"},
		{"product", Product{ProductID: "prod789"}, "buyv://app/product/prod789"},
		{"order", Order{OrderID: "order101"}, "buyv://app/order/order101"},
		{"reels with id", Reels{ReelID: "abc123"}, "buyv://app/reels/abc123"},
		{"reels without id", Reels{}, "buyv://app/reels"},
		{"search with query", Search{Query: "shoes"}, "buyv://app/search?q=shoes"},
		{"search without query", Search{}, "buyv://app/search"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Build(tc.target))
		})
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want Result
	}{
		{"profile", "buyv://app/profile/user123", Profile{UserID: "user123"}},
		{"post", "buyv://app/post/post456", Post{PostID: "post456"}},
		{"product", "buyv://app/product/prod789", Product{ProductID: "prod789"}},
		{"order", "buyv://app/order/order101", Order{OrderID: "order101"}},
		{"reels with id", "buyv://app/reels/abc123", Reels{ReelID: "abc123"}},
		{"reels without id", "buyv://app/reels", Reels{}},
		{"search with query", "buyv://app/search?q=shoes", Search{Query: "shoes"}},
		{"search without query", "buyv://app/search", Search{}},
		{"search ignores extra params", "buyv://app/search?q=shoes&utm=x", Search{Query: "shoes"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Parse(tc.url))
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"not a url", "not-a-valid-url"},
		{"empty", ""},
		{"wrong scheme", "https://app/profile/user123"},
		{"profile without id", "buyv://app/profile"},
		{"profile with trailing slash", "buyv://app/profile/"},
		{"post without id", "buyv://app/post"},
		{"post with trailing slash", "buyv://app/post/"},
		{"product without id", "buyv://app/product"},
		{"order without id", "buyv://app/order"},
		{"unknown path", "buyv://app/settings/abc"},
		{"scheme only", "buyv://"},
		{"host only", "buyv://app"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Nil(t, Parse(tc.url))
		})
	}
}

// La loi d'aller-retour : Parse(Build(v)) == v tant que les ids et la query
// ne contiennent aucun délimiteur réservé ('/', '?', '&').
func TestRoundTrip(t *testing.T) {
	targets := []Result{
		Profile{UserID: "u-1"},
		Post{PostID: "p-2"},
		Product{ProductID: "prod-3"},
		Order{OrderID: "ord-4"},
		Reels{ReelID: "reel-5"},
		Reels{},
		Search{Query: "running shoes"},
		Search{},
	}

	for _, v := range targets {
		require.Equal(t, v, Parse(Build(v)), "round trip failed for %#v", v)
	}
}
