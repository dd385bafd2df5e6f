package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"lowercases scheme and host",
			"HTTPS://Jobs.Example.COM/listing/42",
			"https://jobs.example.com/listing/42",
		},
		{
			"strips fragment",
			"https://jobs.example.com/listing/42#apply",
			"https://jobs.example.com/listing/42",
		},
		{
			"strips trailing slash",
			"https://jobs.example.com/listing/42/",
			"https://jobs.example.com/listing/42",
		},
		{
			"drops tracking params keeps real ones",
			"https://jobs.example.com/l?utm_source=tg&utm_campaign=x&id=42&gclid=abc",
			"https://jobs.example.com/l?id=42",
		},
		{
			"sorts query keys",
			"https://jobs.example.com/l?b=2&a=1",
			"https://jobs.example.com/l?a=1&b=2",
		},
		{
			"drops ref and trk",
			"https://jobs.example.com/l?ref=feed&trk=mail&id=42",
			"https://jobs.example.com/l?id=42",
		},
		{
			"empty input",
			"   ",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalID(tt.in))
		})
	}
}

func TestCanonicalIDEquivalence(t *testing.T) {
	a := CanonicalID("https://jobs.example.com/listing/42/?utm_source=email")
	b := CanonicalID("HTTPS://JOBS.EXAMPLE.COM/listing/42#top")
	assert.Equal(t, a, b)
}
