package http

import (
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func optionalID(s string) (*kernel.UUID, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent id
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalPoint(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // absent location
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func optionalDate(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent date
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &t, nil
}

// historyParams reads event_type, from, to, limit and offset from the query
// string. Dates accept RFC 3339 or a bare calendar day.
func historyParams(c echo.Context) (audit.Filter, audit.PageRequest, error) {
	var filter audit.Filter
	filter.EventTypes = c.QueryParams()["event_type"]

	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return audit.Filter{}, audit.PageRequest{}, err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return audit.Filter{}, audit.PageRequest{}, err
	}

	var page audit.PageRequest
	if page.Limit, err = queryInt(c, "limit"); err != nil {
		return audit.Filter{}, audit.PageRequest{}, err
	}
	if page.Offset, err = queryInt(c, "offset"); err != nil {
		return audit.Filter{}, audit.PageRequest{}, err
	}
	return filter, page, nil
}

func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent bound
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &t, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.NewValueIsInvalidError(name)
	}
	return n, nil
}

func pageResponse[T, R any](page audit.Page[T], convert func(T) R) PageResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return PageResponse[R]{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
