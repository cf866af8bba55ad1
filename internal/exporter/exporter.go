package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrRender       = errors.New("render_error")
	ErrConvert      = errors.New("convert_error")
	ErrUnknownKind  = errors.New("unknown_kind")
	ErrUnknownFormat = errors.New("unknown_format")
)

const (
	KindResume      = "resume"
	KindCoverLetter = "cover_letter"

	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Document is a rendered export ready to be downloaded
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type section struct {
	Lines  []string
	Bullet bool
}

type page struct {
	Title    string
	Name     string
	Contact  []string
	Job      string
	Sections []section
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 46rem; margin: 2rem auto; line-height: 1.45; color: #222; }
header { border-bottom: 1px solid #ccc; margin-bottom: 1.2rem; }
.contact { color: #555; font-size: 0.9rem; }
</style>
</head>
<body>
<header>
{{- if .Name}}<h1>{{.Name}}</h1>{{end}}
{{- if .Contact}}<p class="contact">{{range $i, $c := .Contact}}{{if $i}} | {{end}}{{$c}}{{end}}</p>{{end}}
{{- if .Job}}<h2>{{.Job}}</h2>{{end}}
</header>
<main>
{{- range .Sections}}
{{- if .Bullet}}
<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>
{{- else}}
<p>{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
{{- end}}
{{- end}}
</main>
</body>
</html>
`))

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	bulletPrefix   = regexp.MustCompile(`^\s*[-*•]\s+`)
)

// Export renders generated text for kind into format
func Export(req models.ExportRequest, profile models.Profile) (*Document, error) {
	if req.Kind != KindResume && req.Kind != KindCoverLetter {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind)
	}
	format := req.Format
	if format == "" {
		format = FormatHTML
	}

	html, err := renderHTML(req, profile)
	if err != nil {
		logging.GetGlobalLogger().Error("Failed to render export", map[string]interface{}{
			"kind":  req.Kind,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	base := filename(req.Kind, req.Job)
	switch format {
	case FormatHTML:
		return &Document{Filename: base + ".html", ContentType: "text/html; charset=utf-8", Body: []byte(html)}, nil
	case FormatMarkdown:
		md, err := htmltomarkdown.ConvertString(html)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConvert, err)
		}
		return &Document{Filename: base + ".md", ContentType: "text/markdown; charset=utf-8", Body: []byte(md)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderHTML(req models.ExportRequest, profile models.Profile) (string, error) {
	p := page{
		Title:    title(req.Kind, req.Job),
		Name:     profile.FullName,
		Sections: sections(req.Content),
	}
	for _, c := range []string{profile.Email, profile.Phone, profile.Headline} {
		if c != "" {
			p.Contact = append(p.Contact, c)
		}
	}
	if req.Job != nil && req.Job.TitleOrEmpty() != "" {
		p.Job = req.Job.TitleOrEmpty()
		if c := req.Job.CompanyOrEmpty(); c != "" {
			p.Job += " at " + c
		}
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sections splits text on blank lines; a block whose every line starts with
// a bullet marker becomes a list
func sections(content string) []section {
	var out []section
	for _, block := range paragraphBreak.Split(strings.TrimSpace(content), -1) {
		var lines []string
		bullet := true
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if bulletPrefix.MatchString(line) {
				line = bulletPrefix.ReplaceAllString(line, "")
			} else {
				bullet = false
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			out = append(out, section{Lines: lines, Bullet: bullet})
		}
	}
	return out
}

func title(kind string, job *models.JobPosting) string {
	name := "Resume"
	if kind == KindCoverLetter {
		name = "Cover Letter"
	}
	if job != nil && job.TitleOrEmpty() != "" {
		return name + ": " + job.TitleOrEmpty()
	}
	return name
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func filename(kind string, job *models.JobPosting) string {
	base := strings.ReplaceAll(kind, "_", "-")
	if job == nil {
		return base
	}
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(job.CompanyOrEmpty()+" "+job.TitleOrEmpty()), "-"), "-")
	if slug == "" {
		return base
	}
	return base + "-" + slug
}
