package grafana

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// authenticator decorates outgoing requests with credentials.
type authenticator interface {
	authenticate(req *http.Request)
}

type tokenAuth struct {
	authorizationHeader string
}

func newTokenAuth(token string) (*tokenAuth, error) {
	if token == "" {
		return nil, errors.New("an API token is required to authenticate against the Grafana API")
	}
	return &tokenAuth{authorizationHeader: fmt.Sprintf("Bearer %s", token)}, nil
}

func (a *tokenAuth) authenticate(req *http.Request) {
	req.Header.Set("Authorization", a.authorizationHeader)
}

type basicAuth struct {
	username string
	password string
}

func newBasicAuth(user *url.Userinfo) (*basicAuth, error) {
	password, _ := user.Password()
	if user.Username() == "" {
		return nil, errors.New("a username is required to authenticate against the Grafana API")
	}
	if password == "" {
		return nil, errors.New("a password is required to authenticate against the Grafana API")
	}
	return &basicAuth{username: user.Username(), password: password}, nil
}

func (a *basicAuth) authenticate(req *http.Request) {
	req.SetBasicAuth(a.username, a.password)
}

// newAuthenticator prefers the token; URL userinfo is the fallback.
func newAuthenticator(token string, user *url.Userinfo) (authenticator, error) {
	if token != "" || user == nil {
		return newTokenAuth(token)
	}
	return newBasicAuth(user)
}
