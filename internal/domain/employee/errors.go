package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrUsernameExists         = errors.New("username already exists")
	ErrCannotDeleteSelf       = errors.New("cannot delete your own account")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
