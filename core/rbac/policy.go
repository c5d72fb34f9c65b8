package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"bgpanel/core/auth"
)

const (
	RealmAdmin  = "admin"
	RealmUser   = "user"
	RealmCommon = "common"
)

// The model maps a role onto the URL realms it may enter. The common realm
// carries a wildcard subject so every authenticated role reaches it.
const realmModel = `
[request_definition]
r = sub, dom

[policy_definition]
p = sub, dom

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || p.sub == "*") && r.dom == p.dom
`

// Policy answers whether a role may enter a realm.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(realmModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	rules := [][]string{
		{auth.RoleAdmin, RealmAdmin},
		{auth.RoleUser, RealmUser},
		{"*", RealmCommon},
	}
	for _, rule := range rules {
		if _, err := e.AddPolicy(rule[0], rule[1]); err != nil {
			return nil, err
		}
	}
	return &Policy{enforcer: e}, nil
}

func (p *Policy) Allowed(role, realm string) bool {
	ok, err := p.enforcer.Enforce(role, realm)
	return err == nil && ok
}

// IsRealm reports whether the first URL segment names a routing realm.
func IsRealm(segment string) bool {
	switch segment {
	case RealmAdmin, RealmUser, RealmCommon:
		return true
	}
	return false
}

// HomeRealm is where a role lands after login.
func HomeRealm(role string) string {
	if role == auth.RoleAdmin {
		return RealmAdmin
	}
	return RealmUser
}
