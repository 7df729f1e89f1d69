package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/gigradar/internal/event"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	html, ok := f[url]
	if !ok {
		return nil, errors.New("404")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type fakeLinker struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	calls int
}

func (f *fakeLinker) SearchArtist(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.urls[name], f.err
}

type fakeWriter struct {
	text   string
	err    error
	prompt string
}

func (f *fakeWriter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func show(title, source string, c event.Category) event.Event {
	return event.Event{
		Title:    title,
		Venue:    "Teatrul Mic",
		Date:     time.Date(2026, 4, 2, 19, 0, 0, 0, event.Bucharest),
		URL:      "https://" + source + ".ro/" + strings.ReplaceAll(title, " ", "-"),
		Source:   source,
		Category: c,
	}
}

const detailPage = `<html><head>
<meta property="og:image" content="/img/poster.jpg">
<meta property="og:description" content="O comedie despre iubire și teatru.">
</head><body>
<a href="https://www.youtube.com/watch?v=abc123&t=5">Trailer</a>
</body></html>`

func TestEnrich_Music(t *testing.T) {
	linker := &fakeLinker{urls: map[string]string{"The Cure": "https://open.spotify.com/artist/cure"}}
	e := New(Options{Linker: linker, Concurrency: 2})

	cure := event.Event{Title: "The Cure", Artist: "The Cure", Category: event.CategoryMusic, URL: "u1"}
	unknown := event.Event{Title: "Unknown", Artist: "Unknown", Category: event.CategoryMusic, URL: "u2"}
	noArtist := event.Event{Title: "Jam", Category: event.CategoryMusic, URL: "u3"}

	got := e.Enrich(context.Background(), []event.Event{cure, unknown, noArtist})

	require.Len(t, got, 3)
	assert.Equal(t, "https://open.spotify.com/artist/cure", got[0].SpotifyURL)
	assert.Empty(t, got[1].SpotifyURL)
	assert.Equal(t, noArtist, got[2])
	assert.Equal(t, 2, linker.calls, "events without artist are not looked up")
	assert.Empty(t, cure.SpotifyURL, "input is not mutated")
}

func TestEnrich_MusicLookupError(t *testing.T) {
	e := New(Options{Linker: &fakeLinker{err: errors.New("rate limited")}})
	in := event.Event{Title: "The Cure", Artist: "The Cure", Category: event.CategoryMusic}
	assert.Equal(t, in, e.One(context.Background(), in))
}

func TestEnrich_ScrapedDetails(t *testing.T) {
	evt := show("Pescarusul", "nottara", event.CategoryTheatre)
	writer := &fakeWriter{text: "should not be used"}
	e := New(Options{Fetcher: fakeFetcher{evt.URL: detailPage}, Writer: writer})

	got := e.One(context.Background(), evt)

	assert.Equal(t, "O comedie despre iubire și teatru.", got.Description)
	assert.Equal(t, event.DescriptionScraped, got.DescriptionSource)
	assert.Equal(t, "https://nottara.ro/img/poster.jpg", got.ImageURL)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", got.VideoURL)
	assert.Empty(t, writer.prompt, "writer only used as a fallback")
}

func TestEnrich_AIFallback(t *testing.T) {
	evt := show("Livada de visini", "tnb", event.CategoryTheatre)
	evt.Artist = "Cehov"
	writer := &fakeWriter{text: `"Un spectacol emoționant despre pierdere și schimbare."`}
	e := New(Options{Fetcher: fakeFetcher{}, Writer: writer})

	got := e.One(context.Background(), evt)

	assert.Equal(t, "Un spectacol emoționant despre pierdere și schimbare.", got.Description)
	assert.Equal(t, event.DescriptionAI, got.DescriptionSource)
	assert.Contains(t, writer.prompt, "Titlu: Livada de visini")
	assert.Contains(t, writer.prompt, "Categorie: Teatru")
	assert.Contains(t, writer.prompt, "Artist/Autor: Cehov")
}

func TestEnrich_Unchanged(t *testing.T) {
	evt := show("Expozitie", "mnac", event.CategoryCulture)

	tests := []struct {
		name   string
		writer Writer
	}{
		{"no writer", nil},
		{"writer error", &fakeWriter{err: errors.New("quota")}},
		{"answer too short", &fakeWriter{text: "Frumos."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Options{Fetcher: fakeFetcher{}, Writer: tt.writer})
			assert.Equal(t, evt, e.One(context.Background(), evt))
		})
	}
}

func TestEnrich_SkipsAlreadyEnriched(t *testing.T) {
	evt := show("Hamlet", "bulandra", event.CategoryTheatre).WithDetails("Deja.", event.DescriptionScraped, "", "")
	e := New(Options{Fetcher: fakeFetcher{evt.URL: detailPage}})
	assert.Equal(t, evt, e.One(context.Background(), evt))
}

func TestEnrich_Truncates(t *testing.T) {
	long := strings.Repeat("ă", 600)
	evt := show("Lung", "arcub", event.CategoryCulture)
	e := New(Options{Writer: &fakeWriter{text: long}})

	got := e.One(context.Background(), evt)
	assert.Equal(t, 500, len([]rune(got.Description)))
	assert.True(t, strings.HasSuffix(got.Description, "..."))
}

func TestEnrich_PreservesOrder(t *testing.T) {
	events := make([]event.Event, 20)
	for i := range events {
		events[i] = event.Event{Title: string(rune('a' + i)), Category: event.CategoryMusic}
	}
	got := New(Options{Concurrency: 4}).Enrich(context.Background(), events)
	assert.Equal(t, events, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://youtube.com/watch?feature=share&v=abc", "https://www.youtube.com/embed/abc"},
		{"https://youtu.be/xyz_9-?si=1", "https://www.youtube.com/embed/xyz_9-"},
		{"https://vimeo.com/123", ""},
		{"::", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmbedURL(tt.in), tt.in)
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractors(t *testing.T) {
	t.Run("generic meta description and iframe", func(t *testing.T) {
		d := Generic(parse(t, `<html><head><meta name="description" content="Descriere."></head>
			<body><iframe src="https://player.vimeo.com/video/1"></iframe></body></html>`), "https://x.ro/a")
		assert.Equal(t, "Descriere.", d.Description)
		assert.Equal(t, "https://player.vimeo.com/video/1", d.VideoURL)
		assert.Empty(t, d.ImageURL)
	})

	t.Run("bulandra gallery and intro tab", func(t *testing.T) {
		d := Bulandra(parse(t, `<html><head><meta property="og:image" content="https://b.ro/og.png"></head><body>
			<a href="https://b.ro/wp-content/uploads/doc.pdf">pdf</a>
			<a href="https://b.ro/wp-content/uploads/poza.JPG">foto</a>
			<div id="intro-tab"><p>Scurt.</p><p>Un text suficient de lung pentru a fi o descriere reală.</p></div>
			</body></html>`), "https://b.ro/spectacol")
		assert.Equal(t, "https://b.ro/wp-content/uploads/poza.JPG", d.ImageURL)
		assert.Equal(t, "Un text suficient de lung pentru a fi o descriere reală.", d.Description)
	})

	t.Run("arcub article paragraphs", func(t *testing.T) {
		d := Arcub(parse(t, `<html><body><article>
			<img src="/uploads/expo.jpg">
			<p>Prima frază a descrierii expoziției este suficient de lungă.</p>
			<p>A doua frază, la fel de lungă, completează descrierea.</p>
			</article></body></html>`), "https://arcub.ro/expo")
		assert.Equal(t, "https://arcub.ro/uploads/expo.jpg", d.ImageURL)
		assert.Equal(t, "Prima frază a descrierii expoziției este suficient de lungă. A doua frază, la fel de lungă, completează descrierea.", d.Description)
	})

	t.Run("teatrul mic featured image", func(t *testing.T) {
		d := TeatrulMic(parse(t, `<html><body><img class="wp-post-image" src="/wp/afis.jpg"></body></html>`), "https://www.teatrulmic.ro/s/x")
		assert.Equal(t, "https://www.teatrulmic.ro/wp/afis.jpg", d.ImageURL)
	})
}
