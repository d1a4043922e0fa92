package types

type NavbarData struct {
	SignedIn  bool
	UserName  string
	RoleLabel string
}

// NavbarDataSetter is implemented by page data structs that carry the shared
// navbar; the renderer fills it from the request context.
type NavbarDataSetter interface {
	SetNavbarData(NavbarData)
}
