package model

// Permission is one bit of a role's permission mask.
type Permission int

const (
	PermFollow   Permission = 0x01
	PermComment  Permission = 0x02
	PermWrite    Permission = 0x04
	PermModerate Permission = 0x08
	PermAdmin    Permission = 0x80
)

const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// RoleSeed describes a role created by RoleRepository.InsertRoles.
type RoleSeed struct {
	Name        string
	Permissions []Permission
	Default     bool
}

// DefaultRoles lists every role the application knows about.
var DefaultRoles = []RoleSeed{
	{Name: RoleUser, Permissions: []Permission{PermFollow, PermComment, PermWrite}, Default: true},
	{Name: RoleModerator, Permissions: []Permission{PermFollow, PermComment, PermWrite, PermModerate}},
	{Name: RoleAdministrator, Permissions: []Permission{PermFollow, PermComment, PermWrite, PermModerate, PermAdmin}},
}
