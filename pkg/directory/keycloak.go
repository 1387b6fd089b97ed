// pkg/directory/keycloak.go

package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	"strings"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/config"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/Nerzal/gocloak/v13"
	cerr "github.com/cockroachdb/errors"
)

// Keycloak treats a realm as the user pool. Built-in profile fields map onto
// the user representation, everything else onto the attributes map.
type Keycloak struct {
	client  *gocloak.GoCloak
	baseURL string
	token   string
}

// keycloakProfile is the realm's declarative user profile
// (GET /admin/realms/{realm}/users/profile).
type keycloakProfile struct {
	Attributes []struct {
		Name        string `json:"name"`
		Permissions struct {
			Edit []string `json:"edit"`
		} `json:"permissions"`
	} `json:"attributes"`
}

var keycloakBuiltins = []string{"username", "email", "firstName", "lastName"}

// NewKeycloak logs in once with the admin credentials; the token is reused
// for every call.
func NewKeycloak(ctx context.Context, cfg config.KeycloakConfig) (*Keycloak, error) {
	client := gocloak.NewClient(strings.TrimRight(cfg.URL, "/"))

	jwt, err := client.LoginAdmin(ctx, cfg.Username, cfg.Password, cfg.AdminRealm)
	if err != nil {
		return nil, classifyKeycloak(err, "keycloak admin login")
	}
	return &Keycloak{client: client, baseURL: strings.TrimRight(cfg.URL, "/"), token: jwt.AccessToken}, nil
}

func (k *Keycloak) DescribeUserPool(ctx context.Context, realm string) ([]attributes.SchemaAttribute, error) {
	var profile keycloakProfile
	resp, err := k.client.GetRequestWithBearerAuth(ctx, k.token).
		SetResult(&profile).
		Get(fmt.Sprintf("%s/admin/realms/%s/users/profile", k.baseURL, realm))
	if err != nil {
		return nil, classifyKeycloak(err, "describe realm user profile")
	}
	if resp.IsError() {
		return nil, classifyKeycloak(&gocloak.APIError{Code: resp.StatusCode(), Message: resp.Status()}, "describe realm user profile")
	}

	schema := make([]attributes.SchemaAttribute, 0, len(profile.Attributes))
	for _, attr := range profile.Attributes {
		schema = append(schema, attributes.SchemaAttribute{
			Name:    attr.Name,
			Mutable: contains(attr.Permissions.Edit, "admin") && attr.Name != "username",
		})
	}
	return schema, nil
}

func (k *Keycloak) CreateUser(ctx context.Context, realm, username string) (string, error) {
	user := gocloak.User{
		Username: gocloak.StringP(username),
		Enabled:  gocloak.BoolP(true),
	}
	if _, err := mail.ParseAddress(username); err == nil {
		user.Email = gocloak.StringP(username)
	}

	id, err := k.client.CreateUser(ctx, k.token, realm, user)
	if err != nil {
		return "", classifyKeycloak(err, "create user")
	}

	created, err := k.client.GetUserByID(ctx, k.token, realm, id)
	if err != nil {
		return "", classifyKeycloak(err, "read created user")
	}
	if email := gocloak.PString(created.Email); email != "" {
		return email, nil
	}
	return gocloak.PString(created.Username), nil
}

// UpdateUserAttributes writes the full user representation back and returns
// the status of the PUT. username cannot be changed.
func (k *Keycloak) UpdateUserAttributes(ctx context.Context, realm, username string, attrs []attributes.Attribute) (int, error) {
	for _, attr := range attrs {
		if attr.Name == "username" {
			return 0, idp_err.New(idp_err.CategoryValidation, "update user attributes failed",
				cerr.New("username is not mutable"))
		}
	}

	user, err := k.lookup(ctx, realm, username)
	if err != nil {
		return 0, err
	}

	custom := map[string][]string{}
	if user.Attributes != nil {
		custom = *user.Attributes
	}
	for _, attr := range attrs {
		switch attr.Name {
		case "email":
			user.Email = gocloak.StringP(attr.Value)
		case "firstName":
			user.FirstName = gocloak.StringP(attr.Value)
		case "lastName":
			user.LastName = gocloak.StringP(attr.Value)
		default:
			custom[attr.Name] = []string{attr.Value}
		}
	}
	user.Attributes = &custom

	resp, err := k.client.GetRequestWithBearerAuth(ctx, k.token).
		SetBody(user).
		Put(fmt.Sprintf("%s/admin/realms/%s/users/%s", k.baseURL, realm, gocloak.PString(user.ID)))
	if err != nil {
		return 0, classifyKeycloak(err, "update user attributes")
	}
	if resp.IsError() {
		return 0, classifyKeycloak(&gocloak.APIError{Code: resp.StatusCode(), Message: resp.Status()}, "update user attributes")
	}
	return resp.StatusCode(), nil
}

func (k *Keycloak) GetUser(ctx context.Context, realm, username string) ([]attributes.Attribute, error) {
	user, err := k.lookup(ctx, realm, username)
	if err != nil {
		return nil, err
	}
	return fromKeycloakUser(user), nil
}

// lookup resolves a username (or email) to the full user representation.
func (k *Keycloak) lookup(ctx context.Context, realm, username string) (*gocloak.User, error) {
	params := []gocloak.GetUsersParams{
		{Username: gocloak.StringP(username), Exact: gocloak.BoolP(true)},
		{Email: gocloak.StringP(username), Exact: gocloak.BoolP(true)},
	}
	for _, p := range params {
		users, err := k.client.GetUsers(ctx, k.token, realm, p)
		if err != nil {
			return nil, classifyKeycloak(err, "look up user")
		}
		if len(users) > 0 {
			return users[0], nil
		}
	}
	return nil, idp_err.New(idp_err.CategoryNotFound, "look up user failed",
		cerr.Newf("user %s does not exist in realm %s", username, realm))
}

func fromKeycloakUser(user *gocloak.User) []attributes.Attribute {
	builtins := map[string]*string{
		"username":  user.Username,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
	}

	var out []attributes.Attribute
	if user.ID != nil {
		out = append(out, attributes.Attribute{Name: "sub", Value: *user.ID})
	}
	for _, name := range keycloakBuiltins {
		if v := builtins[name]; v != nil {
			out = append(out, attributes.Attribute{Name: name, Value: *v})
		}
	}

	if user.Attributes != nil {
		names := make([]string, 0, len(*user.Attributes))
		for name := range *user.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			values := (*user.Attributes)[name]
			out = append(out, attributes.Attribute{Name: name, Value: strings.Join(values, ",")})
		}
	}
	return out
}

// classifyKeycloak maps Keycloak HTTP status codes onto error categories.
func classifyKeycloak(err error, operation string) error {
	category := idp_err.CategoryService
	var apiErr *gocloak.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			category = idp_err.CategoryNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			category = idp_err.CategoryAccessDenied
		case http.StatusConflict:
			category = idp_err.CategoryAlreadyExists
		case http.StatusBadRequest:
			category = idp_err.CategoryValidation
		}
	}
	return idp_err.New(category, fmt.Sprintf("%s failed", operation), err)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
