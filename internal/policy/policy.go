package policy

import (
	"errors"
)

type Role string

const (
	// RoleRegional users may only query the regions listed on the user.
	RoleRegional Role = "regional"
	// RoleAccount users may query any region in the account.
	RoleAccount Role = "account"
)

type User struct {
	ID              string
	Role            Role
	AllowedRegions  []string
	AllowedToolsets []string
	AllowedTools    []string
}

type Authorizer struct {
}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

func (a *Authorizer) Authenticate(apiKey string) (User, error) {
	_ = apiKey
	return User{ID: "local", Role: RoleAccount}, nil
}

func (a *Authorizer) AuthorizeTool(user User, toolsetID, toolName string) error {
	_ = user
	_ = toolsetID
	_ = toolName
	return nil
}

func (a *Authorizer) CheckRegion(user User, region string) error {
	if user.Role == RoleAccount {
		return nil
	}
	if region == "" {
		return errors.New("region required for regional role")
	}
	for _, allowed := range user.AllowedRegions {
		if allowed == region {
			return nil
		}
	}
	return errors.New("region not allowed")
}

func (a *Authorizer) FilterRegions(user User, regions []string) []string {
	if user.Role == RoleAccount {
		return regions
	}
	allowed := map[string]struct{}{}
	for _, region := range user.AllowedRegions {
		allowed[region] = struct{}{}
	}
	var filtered []string
	for _, region := range regions {
		if _, ok := allowed[region]; ok {
			filtered = append(filtered, region)
		}
	}
	return filtered
}
