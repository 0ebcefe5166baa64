package middleware

import (
	"errors"
	"net/http"
	"strings"

	"citycut/internal/metrics"
	"citycut/internal/model"
	"citycut/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	PrincipalKey = "principal"

	PathLogin        = "/login"
	PathUnauthorized = "/unauthorized"
)

// Decision is the outcome of the access gate. An empty Redirect means allow.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

var allow = Decision{}

// isPublic reports whether path is "/" or "/login" or below it. The login
// prefix must end on a segment boundary so "/loginx" stays gated.
func isPublic(path string) bool {
	if path == "/" {
		return true
	}
	return path == PathLogin || strings.HasPrefix(path, PathLogin+"/")
}

// Decide applies the gate rules in order:
//  1. public paths are always allowed
//  2. no session goes to /login
//  3. /admin* needs ADMIN
//  4. /sales* needs SALES_REP
//  5. anything else is allowed
//
// Protected prefixes are plain string prefixes, so "/administrator" is gated
// like "/admin".
func Decide(path string, p *session.Principal) Decision {
	if isPublic(path) {
		return allow
	}
	if p == nil {
		return Decision{Redirect: PathLogin}
	}
	if strings.HasPrefix(path, "/admin") && p.Role != model.RoleAdmin {
		return Decision{Redirect: PathUnauthorized}
	}
	if strings.HasPrefix(path, "/sales") && p.Role != model.RoleSalesRep {
		return Decision{Redirect: PathUnauthorized}
	}
	return allow
}

// AccessGate resolves the session once per request and applies Decide. Any
// oracle error counts as no session. On redirect the chain is aborted with a
// 303 so no protected handler runs.
func AccessGate(oracle session.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := oracle.Session(c.Request)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Debug().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("session rejected")
			}
			p = nil
		}

		d := Decide(c.Request.URL.Path, p)
		if !d.Allowed() {
			metrics.RecordGateDecision(d.Redirect)
			c.Redirect(http.StatusSeeOther, d.Redirect)
			c.Abort()
			return
		}
		metrics.RecordGateDecision("allow")
		if p != nil {
			c.Set(PrincipalKey, p)
		}
		c.Next()
	}
}

// GetPrincipal returns the principal stored by AccessGate, or nil.
func GetPrincipal(c *gin.Context) *session.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*session.Principal)
	return p
}
