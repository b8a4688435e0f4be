package api

import (
	"strconv"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/clock"

	"github.com/gin-gonic/gin"
)

// IDParam reads a positive integer path parameter.
func IDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid %s", name)
	}
	return id, nil
}

// DateQuery parses a YYYY-MM-DD query value in loc. An absent value yields
// the zero time and ok=false.
func DateQuery(c *gin.Context, name string, loc *time.Location) (t time.Time, ok bool, err error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err = clock.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, false, apperr.Invalid("invalid %s: expected YYYY-MM-DD", name)
	}
	return t, true, nil
}

// BoolQuery reads a true/false query value, falling back to def.
func BoolQuery(c *gin.Context, name string, def bool) bool {
	v, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
