package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is the resolved page window of a list request.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePagination reads page and limit from q. Missing or non-numeric values
// fall back to the defaults, page is floored to 1 and limit is kept within
// [1, MaxLimit].
func ParsePagination(q url.Values) Pagination {
	page := queryInt(q, "page", DefaultPage)
	limit := queryInt(q, "limit", DefaultLimit)

	page = max(page, 1)
	limit = min(max(limit, 1), MaxLimit)

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

func queryInt(q url.Values, key string, fallback int) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// TotalPages is ceil(total/limit), never less than 1.
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// BuildPageURL rebuilds the request URL with page and limit replaced. Other
// query parameters, the host and the path are kept.
func BuildPageURL(r *http.Request, page, limit int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// SetPaginationHeaders writes the Link and X-Total-Pages headers. Link always
// has first and last, prev only past page 1 and next only before the last
// page. X-Total-Count is left exactly as the caller set it.
func SetPaginationHeaders(w http.ResponseWriter, r *http.Request, page, limit, totalPages int) {
	links := make([]string, 0, 4)
	links = append(links, fmt.Sprintf(`<%s>; rel="first"`, BuildPageURL(r, 1, limit)))
	if page > 1 {
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, BuildPageURL(r, page-1, limit)))
	}
	if page < totalPages {
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, BuildPageURL(r, page+1, limit)))
	}
	links = append(links, fmt.Sprintf(`<%s>; rel="last"`, BuildPageURL(r, totalPages, limit)))

	w.Header().Set("X-Total-Pages", strconv.Itoa(totalPages))
	w.Header().Set("Link", strings.Join(links, ", "))
}

// PaginatedSuccess writes a 200 list envelope with pagination meta and
// headers. An empty message becomes "Items retrieved".
func PaginatedSuccess(w http.ResponseWriter, r *http.Request, items any, total int64, page, limit int, message string) {
	if message == "" {
		message = "Items retrieved"
	}
	totalPages := TotalPages(total, limit)

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	SetPaginationHeaders(w, r, page, limit, totalPages)

	SuccessResponse(w, r, items, types.Meta{
		Status:  http.StatusOK,
		Message: message,
		PageMeta: &types.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}
