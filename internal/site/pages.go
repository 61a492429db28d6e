package site

// Page binds one roster config to a rendered location on the site.
type Page struct {
	// Path is the site-relative directory the page renders into;
	// "/" renders index.html at the site root.
	Path string
	// Config is the roster filename resolved against the config dir.
	Config string
	// Template is the page's template name in the embedded set.
	Template string
}

// sitePages is the authoritative site map: one page per flat, in publish
// order. The Christchurch flat owns the root page.
var sitePages = []Page{
	{Path: "/", Config: "chch.yaml", Template: "chch.tmpl"},
	{Path: "/welly", Config: "welly.yaml", Template: "welly.tmpl"},
}

// Pages returns the site map. Callers get a copy so the registry stays
// immutable.
func Pages() []Page {
	pages := make([]Page, len(sitePages))
	copy(pages, sitePages)
	return pages
}
