package enrich

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Details is what a detail page contributes to an event
type Details struct {
	Description string
	ImageURL    string
	VideoURL    string
}

// Extractor reads Details from a fetched detail page
type Extractor func(doc *goquery.Document, pageURL string) Details

var youtuBeID = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`)

// DefaultExtractors are the site-specific extractors keyed by source name.
// Sources without an entry use Generic.
func DefaultExtractors() map[string]Extractor {
	return map[string]Extractor{
		"bulandra":   Bulandra,
		"arcub":      Arcub,
		"teatrulmic": TeatrulMic,
	}
}

// Generic uses page metadata: og:image, og:description or meta description,
// and the first YouTube or Vimeo video
func Generic(doc *goquery.Document, pageURL string) Details {
	d := Details{
		ImageURL:    meta(doc, "meta[property='og:image']"),
		Description: meta(doc, "meta[property='og:description']"),
	}
	if d.Description == "" {
		d.Description = meta(doc, "meta[name='description']")
	}
	d.VideoURL = video(doc)
	d.ImageURL = absolute(pageURL, d.ImageURL)
	return d
}

// Bulandra prefers the gallery image and the synopsis tab
func Bulandra(doc *goquery.Document, pageURL string) Details {
	d := Generic(doc, pageURL)

	doc.Find("a[href*='wp-content/uploads']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
			if strings.HasSuffix(lower, ext) {
				d.ImageURL = absolute(pageURL, href)
				return false
			}
		}
		return true
	})

	if text := paragraphs(doc.Find("#intro-tab, .eael-tab-content-item.active").First(), 30, 2); text != "" {
		d.Description = text
	}
	return d
}

// Arcub reads the article body and falls back to project images
func Arcub(doc *goquery.Document, pageURL string) Details {
	d := Generic(doc, pageURL)
	if d.ImageURL == "" {
		if src, ok := doc.Find(".project-image img, .event-image img, article img").First().Attr("src"); ok {
			d.ImageURL = absolute(pageURL, src)
		}
	}
	if text := paragraphs(doc.Find("article, .content, .event-description, .post-content"), 30, 4); text != "" {
		d.Description = text
	}
	return d
}

// TeatrulMic uses the WordPress featured image
func TeatrulMic(doc *goquery.Document, pageURL string) Details {
	d := Generic(doc, pageURL)
	if src, ok := doc.Find(".wp-post-image, img.size-full").First().Attr("src"); ok && src != "" {
		d.ImageURL = absolute(pageURL, src)
	}
	return d
}

func meta(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// paragraphs joins up to limit <p> texts longer than minLen found within s
func paragraphs(s *goquery.Selection, minLen, limit int) string {
	texts := make([]string, 0, limit)
	s.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.Join(strings.Fields(p.Text()), " ")
		if len([]rune(text)) > minLen {
			texts = append(texts, text)
		}
		return len(texts) < limit
	})
	return strings.Join(texts, " ")
}

// video returns an embeddable video URL: an iframe first, then a YouTube link
func video(doc *goquery.Document) string {
	if src, ok := doc.Find("iframe[src*='youtube'], iframe[src*='vimeo']").First().Attr("src"); ok && src != "" {
		return src
	}
	href, ok := doc.Find("a[href*='youtube.com/watch'], a[href*='youtu.be']").First().Attr("href")
	if !ok {
		return ""
	}
	return EmbedURL(href)
}

// EmbedURL converts a YouTube watch or short link into an embed URL
func EmbedURL(link string) string {
	if m := youtuBeID.FindStringSubmatch(link); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("v"); id != "" && strings.Contains(u.Host, "youtube.com") {
		return "https://www.youtube.com/embed/" + id
	}
	return ""
}

func absolute(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
