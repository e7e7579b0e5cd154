package commands

import (
	"context"
	"fmt"
	"time"

	jwttoken "agencyreg/internal/jwt_token"
	id "agencyreg/pkg/domain"
)

type TokenCmd struct {
	Principal string        `help:"Principal the token asserts." required:""`
	TTL       time.Duration `help:"Token lifetime; defaults to REGISTRY_TOKEN_TTL or 1h." name:"ttl"`
}

func (c *TokenCmd) Run(_ context.Context, globals *Globals) error {
	principal, err := id.ParsePrincipal(c.Principal)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = globals.Config.Token.TTL
	}

	tokens := jwttoken.NewJWTService(globals.Config.Token.SigningKey, globals.Config.Token.Issuer)
	token, err := tokens.GenerateCallerToken(principal, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(globals.stdout(), token)
	return err
}
