// Package docs post-processes the generated documentation site,
// injecting the reader-enhancement snippet into every HTML page.
package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/personax/relkit/shared/logx"
)

// Marker identifies pages that already carry the enhancement snippet,
// making repeated runs idempotent.
const Marker = "<!-- relkit:enhanced -->"

var snippet = Marker + `
<style>
  h2:hover .headerlink, h3:hover .headerlink { opacity: 1; }
  .headerlink { opacity: 0; margin-left: .3em; text-decoration: none; }
</style>
<script>
  document.addEventListener("DOMContentLoaded", function () {
    document.querySelectorAll("h2[id], h3[id]").forEach(function (h) {
      var a = document.createElement("a");
      a.className = "headerlink";
      a.href = "#" + h.id;
      a.textContent = "¶";
      h.appendChild(a);
    });
    document.querySelectorAll('a[href^="http"]').forEach(function (a) {
      if (a.host !== window.location.host) {
        a.target = "_blank";
        a.rel = "noopener";
      }
    });
  });
</script>
`

// Service is the interface for documentation post-processing.
type Service interface {
	Enhance(siteDir string) (int, error)
}

type service struct{}

// NewService creates a new docs service.
func NewService() Service {
	return &service{}
}

// Enhance walks the site directory and injects the snippet before the
// closing head tag of each HTML page. Pages already carrying the marker
// are left untouched. Returns the number of pages updated.
func (s *service) Enhance(siteDir string) (int, error) {
	if _, err := os.Stat(siteDir); err != nil {
		return 0, fmt.Errorf("site directory %s not found: %w", siteDir, err)
	}

	updated := 0
	err := filepath.WalkDir(siteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := string(data)
		if strings.Contains(content, Marker) {
			return nil
		}

		injected, ok := inject(content)
		if !ok {
			logx.Warn("no head or body close tag in %s, skipping", logx.Path(path))
			return nil
		}

		perm := fs.FileMode(0o644)
		if info, err := d.Info(); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(path, []byte(injected), perm); err != nil {
			return err
		}
		updated++
		return nil
	})
	return updated, err
}

// inject places the snippet before </head>, falling back to </body>.
func inject(content string) (string, bool) {
	for _, closeTag := range []string{"</head>", "</body>"} {
		if idx := strings.Index(content, closeTag); idx >= 0 {
			return content[:idx] + snippet + content[idx:], true
		}
	}
	return content, false
}
