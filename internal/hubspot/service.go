package hubspot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hsforms/internal/ports"
	"hsforms/internal/types"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const (
	FormsCacheKey  = "hubspot-forms::forms"
	PortalCacheKey = "hubspot-forms::portal"

	FormsTTL  = 600 * time.Second
	PortalTTL = 3600 * time.Second
)

// Service exposes the HubSpot data the plugin needs: the forms listing, the portal id
// and a settings check. None of its methods fail; a HubSpot outage shows up as an
// empty or partial listing, or as an absent portal id.
type Service struct {
	settings types.Settings
	fetcher  ports.Fetcher
	cache    ports.Cache

	// APIBase and AppBase default to the public HubSpot hosts.
	APIBase string
	AppBase string
}

// NewService wires a Service. cache may be nil, in which case every call hits HubSpot.
func NewService(settings types.Settings, fetcher ports.Fetcher, cache ports.Cache) *Service {
	return &Service{
		settings: settings,
		fetcher:  fetcher,
		cache:    cache,
		APIBase:  types.DefaultAPIBase,
		AppBase:  types.DefaultAppBase,
	}
}

// Options tunes services built by NewServiceFromSettings. Zero values mean defaults.
type Options struct {
	HTTPTimeout time.Duration
	APIBase     string
	AppBase     string
}

// NewServiceFromSettings builds a Service talking to HubSpot through a Client that uses
// the settings' token.
func NewServiceFromSettings(settings types.Settings, cache ports.Cache, opts Options) *Service {
	svc := NewService(settings, NewClient(settings.Token, opts.HTTPTimeout), cache)
	if opts.APIBase != "" {
		svc.APIBase = strings.TrimRight(opts.APIBase, "/")
	}
	if opts.AppBase != "" {
		svc.AppBase = strings.TrimRight(opts.AppBase, "/")
	}
	return svc
}

// Settings returns the settings the service was built with.
func (s *Service) Settings() types.Settings {
	return s.settings
}

// HasValidSettings reports whether both the token and the portal id are configured.
func (s *Service) HasValidSettings() bool {
	return s.settings.Valid()
}

// ListForms returns every marketing form of the account as an ordered name -> id
// listing. The result is cached for FormsTTL.
func (s *Service) ListForms(ctx context.Context) types.Forms {
	return cached(ctx, s.cache, FormsCacheKey, FormsTTL, s.fetchForms)
}

// RefreshForms drops the cached listing and fetches it again.
func (s *Service) RefreshForms(ctx context.Context) types.Forms {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, FormsCacheKey); err != nil {
			log.WithError(err).Error("failed to drop cached forms")
		}
	}
	return s.ListForms(ctx)
}

// fetchForms walks the paginated forms endpoint. A failed or non-200 page ends the walk
// and whatever was collected so far is returned.
func (s *Service) fetchForms(ctx context.Context) types.Forms {
	forms := make(map[string]types.FormID)
	link := fmt.Sprintf("%s/marketing/v3/forms?limit=%d", s.APIBase, s.settings.PageLimit())
	visited := make(map[string]struct{})
	maxPages := s.settings.PageCap()

	for page := 1; ; page++ {
		logger := log.WithFields(log.Fields{"url": link, "page": page})
		if page > maxPages {
			logger.Warnf("stopped forms listing after %d pages", maxPages)
			break
		}
		visited[link] = struct{}{}

		resp, ok := s.fetcher.Fetch(ctx, link, "")
		if !ok {
			logger.Warn("forms page unavailable, returning partial listing")
			break
		}
		if !resp.OK() {
			logger.WithField("status", resp.StatusCode).Warn("forms page rejected, returning partial listing")
			break
		}
		body, err := decodeBody(resp.Body)
		if err != nil {
			logger.WithError(err).Warn("forms page is not valid JSON, returning partial listing")
			break
		}
		collectForms(body, forms)

		next, err := EvalString(exprNextLink, body)
		if err != nil || next == nil || *next == "" {
			break
		}
		if _, seen := visited[*next]; seen {
			logger.WithField("next", *next).Warn("forms paging link loops back, stopping")
			break
		}
		link = *next
	}
	return types.NewForms(forms)
}

// collectForms records name -> id for each entry of the page's results. Later entries
// overwrite earlier ones with the same name.
func collectForms(body any, forms map[string]types.FormID) {
	results, err := EvalAny(exprResults, body)
	if err != nil {
		return
	}
	entries, ok := results.([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		name, err := EvalString(exprName, entry)
		if err != nil || name == nil {
			continue
		}
		var id types.FormID
		if v, err := EvalString(exprID, entry); err == nil && v != nil {
			id = types.FormID(*v)
		}
		forms[*name] = id
	}
}

// portalEntry is the cached form of a portal id lookup; an absent id is cached too.
type portalEntry struct {
	ID    types.PortalID `json:"portal_id"`
	Found bool           `json:"found"`
}

// PortalID resolves the account id of token, or of the configured token when token is
// empty. The result, including an absent one, is cached for PortalTTL under a single
// key whatever token was used.
func (s *Service) PortalID(ctx context.Context, token string) (types.PortalID, bool) {
	e := cached(ctx, s.cache, PortalCacheKey, PortalTTL, func(ctx context.Context) portalEntry {
		return s.fetchPortalID(ctx, token)
	})
	return e.ID, e.Found
}

func (s *Service) fetchPortalID(ctx context.Context, token string) portalEntry {
	resp, ok := s.fetcher.Fetch(ctx, s.APIBase+"/integrations/v1/me", token)
	if !ok {
		return portalEntry{}
	}
	body, err := decodeBody(resp.Body)
	if err != nil {
		log.WithError(err).Warn("account response is not valid JSON")
		return portalEntry{}
	}
	id, err := EvalString(exprPortalID, body)
	if err != nil || id == nil || *id == "" {
		return portalEntry{}
	}
	return portalEntry{ID: types.PortalID(*id), Found: true}
}

// FormsURL links to the forms page of the account in the HubSpot app. An unresolved
// portal id leaves the last path segment empty.
func (s *Service) FormsURL(ctx context.Context) string {
	id, _ := s.PortalID(ctx, "")
	return fmt.Sprintf("%s/forms/%s", s.AppBase, id)
}

// cached runs compute through the cache. Cache failures are logged and never reach the
// caller; the value is then computed directly.
func cached[T any](ctx context.Context, c ports.Cache, key string, ttl time.Duration, compute func(context.Context) T) T {
	if c == nil {
		return compute(ctx)
	}
	var (
		fresh    T
		computed bool
	)
	b, err := c.GetOrSet(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		fresh = compute(ctx)
		computed = true
		// A caller that went away saw a truncated result; it must not be stored.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return json.Marshal(fresh)
	})
	if err != nil {
		// Waiters on a canceled caller's flight land here too and compute for themselves.
		if ctx.Err() == nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.WithError(err).WithField("key", key).Error("cache unavailable")
		}
		if computed {
			return fresh
		}
		return compute(ctx)
	}
	if computed {
		return fresh
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		log.WithError(err).WithField("key", key).Error("cached value is corrupt, recomputing")
		if err := c.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Error("failed to drop corrupt cache entry")
		}
		return compute(ctx)
	}
	return out
}
