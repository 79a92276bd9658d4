package noise

// Selector categories for structural chrome. Grouped so individual
// categories can be toggled by extraction options.
var (
	navigationSelectors = []string{
		"nav", "header", ".nav", ".navbar", ".navigation", ".menu",
		".breadcrumb", ".breadcrumbs", "#nav", "#navbar", "#menu",
		"[role='navigation']", ".site-header", ".top-bar", ".masthead",
	}

	sidebarSelectors = []string{
		"aside", ".sidebar", ".side-bar", "#sidebar", ".widget",
		".widget-area", "[role='complementary']", ".rail",
	}

	socialSelectors = []string{
		".social", ".social-share", ".share", ".share-buttons",
		".sharing", ".social-links", ".social-media", ".share-bar",
		".follow-us", ".sns",
	}

	commentSelectors = []string{
		".comments", "#comments", ".comment", ".comment-section",
		"#disqus_thread", ".disqus", "#respond", ".comment-respond",
		".livefyre", ".fb-comments",
	}

	adSelectors = []string{
		".ad", ".ads", ".advert", ".advertisement", ".ad-container",
		".ad-wrapper", ".ad-banner", ".adsbygoogle", ".sponsored",
		"[id^='google_ads']", "[class^='ad-slot']", ".dfp-ad", ".promo",
	}

	recommendationSelectors = []string{
		".related", ".related-posts", ".related-articles", ".recommended",
		".recommendations", ".read-next", ".more-stories", ".you-may-like",
		".popular-posts", ".trending", ".outbrain", ".taboola",
	}

	footerSelectors = []string{
		"footer", ".footer", "#footer", ".site-footer", ".page-footer",
		"[role='contentinfo']", ".copyright", ".colophon",
	}

	overlaySelectors = []string{
		".modal", ".popup", ".overlay", ".lightbox", ".cookie-banner",
		".cookie-notice", ".gdpr", ".newsletter-signup", ".paywall",
		".subscribe-banner", "[role='dialog']",
	}

	hiddenSelectors = []string{
		"[hidden]", "[aria-hidden='true']",
		"[style*='display:none']", "[style*='display: none']",
		"[style*='visibility:hidden']", "[style*='visibility: hidden']",
	}

	scriptSelectors = []string{
		"script", "style", "noscript", "template", "iframe",
		"form", "button", "input", "select", "textarea",
	}
)
