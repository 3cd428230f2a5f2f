package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPages() []Page {
	return []Page{
		{Slug: "/", Title: "Home"},
		{Slug: "/blog", Title: "Blog"},
	}
}

func TestStore(t *testing.T) {
	t.Run("title tracks the active route", func(t *testing.T) {
		s := NewStore(testPages(), "/")
		assert.Equal(t, "Home", s.Title())

		s.Navigate("/blog")
		assert.Equal(t, "Blog", s.Title())
	})

	t.Run("unknown route reports not found", func(t *testing.T) {
		s := NewStore(testPages(), "/missing")
		assert.Equal(t, "Not Found", s.Title())
	})

	t.Run("is active matches exact and nested paths", func(t *testing.T) {
		s := NewStore(testPages(), "/blog/post-1")
		assert.True(t, s.IsActive("/blog"))
		assert.False(t, s.IsActive("/"))
	})

	t.Run("on navigate runs once immediately then on every change", func(t *testing.T) {
		log := []string{}
		s := NewStore(testPages(), "/")

		s.OnNavigate(func(title string) {
			log = append(log, fmt.Sprintf("title: %s", title))
		})

		s.Navigate("/blog")

		assert.Equal(t, []string{"title: Home", "title: Blog"}, log)
	})
}
