//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package anon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"golang.org/x/sync/errgroup"
)

// Lexicons - lowercased name and illness lists
type Lexicons struct {
	Names     map[string]struct{}
	Illnesses map[string]struct{}
	illre     *regexp.Regexp
}

// NewLexicons - normalise both lists and compile the illness matcher
func NewLexicons(names, illnesses []string) Lexicons {
	lx := Lexicons{
		Names:     normalise(names),
		Illnesses: normalise(illnesses),
	}
	delete(lx.Illnesses, vv.ANONILLDISCARD)

	if len(lx.Illnesses) > 0 {
		ii := make([]string, 0, len(lx.Illnesses))
		for i := range lx.Illnesses {
			ii = append(ii, i)
		}
		// longest first so that "multiple sclerose" wins over "sclerose"
		sort.Slice(ii, func(a, b int) bool {
			la, lb := utf8.RuneCountInString(ii[a]), utf8.RuneCountInString(ii[b])
			if la != lb {
				return la > lb
			}
			return ii[a] < ii[b]
		})
		for n := range ii {
			ii[n] = regexp.QuoteMeta(ii[n])
		}
		// the trailing boundary sits inside the pattern so that a longer entry that runs into a word
		// gives way to a shorter one at the same start
		lx.illre = regexp.MustCompile(`(?i)(` + strings.Join(ii, "|") + `)(?:$|[^\p{L}\p{Nd}_])`)
	}
	return lx
}

func (lx Lexicons) Empty() bool {
	return len(lx.Names) == 0 && len(lx.Illnesses) == 0
}

func normalise(ll []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ll))
	for _, l := range ll {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out[l] = struct{}{}
		}
	}
	return out
}

// Cache - somewhere to keep downloaded lists between launches
type Cache interface {
	Save(ctx context.Context, name string, entries []string) error
	Load(ctx context.Context, name string) ([]string, error)
}

// Sources - where the lists come from
type Sources struct {
	NamesURL   string
	IllnessURL string
	Client     *http.Client
}

// Provenance - where each list actually came from: "download", "cache", or "empty"
type Provenance struct {
	Names     string `json:"names"`
	Illnesses string `json:"illnesses"`
}

const (
	FROMDOWNLOAD = "download"
	FROMCACHE    = "cache"
	FROMNOWHERE  = "empty"
)

// LoadLexicons - download both lists in parallel; a failed download falls back to the cache and then to an
// empty list. It never fails outright. logf may be nil.
func LoadLexicons(ctx context.Context, src Sources, cache Cache, logf func(string)) (Lexicons, Provenance) {
	if logf == nil {
		logf = func(string) {}
	}
	client := src.Client
	if client == nil {
		client = &http.Client{Timeout: vv.LEXHTTPTIMEOUT * time.Second}
	}

	var names, ills []string
	var prov Provenance

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, prov.Names = obtain(gctx, client, src.NamesURL, vv.LEXNAMES, cache, logf)
		return nil
	})
	g.Go(func() error {
		ills, prov.Illnesses = obtain(gctx, client, src.IllnessURL, vv.LEXILLNESSES, cache, logf)
		return nil
	})
	_ = g.Wait()

	return NewLexicons(names, ills), prov
}

func obtain(ctx context.Context, client *http.Client, url, name string, cache Cache, logf func(string)) ([]string, string) {
	ll, err := fetch(ctx, client, url)
	if err == nil {
		if cache != nil {
			if serr := cache.Save(ctx, name, ll); serr != nil {
				logf(fmt.Sprintf("could not cache the %s list: %s", name, serr.Error()))
			}
		}
		return ll, FROMDOWNLOAD
	}
	logf(fmt.Sprintf("could not download the %s list: %s", name, err.Error()))

	if cache != nil {
		if ll, err = cache.Load(ctx, name); err == nil {
			return ll, FROMCACHE
		}
	}
	logf(fmt.Sprintf("the %s list is empty", name))
	return nil, FROMNOWHERE
}

// fetch - one entry per line
func fetch(ctx context.Context, client *http.Client, url string) ([]string, error) {
	if url == "" {
		return nil, fmt.Errorf("no url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %s", url, resp.Status)
	}

	var out []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if l := strings.ToLower(strings.TrimSpace(sc.Text())); l != "" {
			out = append(out, l)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
