package layouts

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - VRC Admin"
	}
	return "VRC Admin"
}

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Path  string
}

// AdminNav lists the screens behind the login gate.
var AdminNav = []NavItem{
	{Label: "Dashboard", Path: "/admin"},
	{Label: "All Volunteers", Path: "/admin/volunteers"},
	{Label: "Signups", Path: "/admin/signups"},
	{Label: "Service Coordinators", Path: "/admin/coordinators"},
	{Label: "Services", Path: "/admin/services"},
	{Label: "Managers", Path: "/admin/managers"},
	{Label: "Events", Path: "/admin/events"},
	{Label: "Projects", Path: "/admin/projects"},
	{Label: "Attendance", Path: "/admin/attendance"},
	{Label: "QR Scanner", Path: "/admin/scan"},
}

// PublicNav lists the pages volunteers use without logging in.
var PublicNav = []NavItem{
	{Label: "Register", Path: "/register"},
	{Label: "Check Assignment", Path: "/check"},
	{Label: "Daily Attendance", Path: "/attendance"},
}
