package mailbox

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajsalpv/Job-Applying/internal/domain"
)

const bodyByteCap = 6 << 20

// listingsFromMessage extracts job links from one alert email. Per-record
// shape problems skip the record, never the message.
func listingsFromMessage(m message, sourceName string) []domain.Listing {
	htmlBody := htmlPart(m.Raw)
	if htmlBody == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	company := companyFromSubject(m.Subject)

	var out []domain.Listing
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !looksLikeJobLink(href) {
			return
		}
		title := strings.Join(strings.Fields(a.Text()), " ")
		if title == "" || looksLikeJunkTitle(title) {
			return
		}
		out = append(out, domain.Listing{
			Role:       title,
			Company:    company,
			URL:        href,
			SourceName: sourceName,
			PostedDate: m.Date.Format("2006-01-02"),
		})
	})
	return out
}

// htmlPart digs the text/html body out of an RFC822 message, decoding
// quoted-printable and base64 transfer encodings.
func htmlPart(raw []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	body, _ := io.ReadAll(io.LimitReader(msg.Body, bodyByteCap))

	ct := msg.Header.Get("Content-Type")
	cte := msg.Header.Get("Content-Transfer-Encoding")
	return findHTML(ct, cte, body, 0)
}

func findHTML(contentType, transferEncoding string, body []byte, depth int) string {
	if depth > 3 {
		return ""
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				return ""
			}
			pb, _ := io.ReadAll(io.LimitReader(part, bodyByteCap))
			if h := findHTML(part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"), pb, depth+1); h != "" {
				return h
			}
		}
	}

	if mediaType == "text/html" {
		return string(decodeTransfer(body, transferEncoding))
	}
	// Some alert senders ship HTML with a text/plain label.
	if mediaType == "text/plain" {
		s := decodeTransfer(body, transferEncoding)
		if bytes.Contains(bytes.ToLower(s), []byte("<a ")) {
			return string(s)
		}
	}
	return ""
}

func decodeTransfer(body []byte, encoding string) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		out, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
		if err == nil {
			return out
		}
	case "base64":
		out, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding,
			bytes.NewReader(bytes.Map(dropWhitespace, body))))
		if err == nil {
			return out
		}
	}
	return body
}

func dropWhitespace(r rune) rune {
	if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
		return -1
	}
	return r
}

func looksLikeJobLink(href string) bool {
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return false
	}
	low := strings.ToLower(href)
	return strings.Contains(low, "/jobs/") || strings.Contains(low, "job-listings") ||
		strings.Contains(low, "currentjobid=") || strings.Contains(low, "/job/")
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "view") || strings.Contains(l, "apply") ||
		strings.Contains(l, "unsubscribe") || strings.Contains(l, "see all")
}

// companyFromSubject pulls the sender-advertised company out of subjects
// like "AI Engineer at Acme and 7 other jobs".
func companyFromSubject(subject string) string {
	if i := strings.Index(subject, " at "); i >= 0 {
		rest := subject[i+4:]
		for _, stop := range []string{" and ", ":", " - ", ","} {
			if j := strings.Index(rest, stop); j >= 0 {
				rest = rest[:j]
			}
		}
		return strings.TrimSpace(rest)
	}
	return ""
}
