package mintos

// Marketplace endpoints, relative to the client base URL. The webapp pages
// are fetched for login markers and token extraction; everything under
// /webapp/api speaks JSON.
const (
	webAppPath       = "/en"
	loginPagePath    = "/en/login"
	overviewPagePath = "/en/overview"

	apiBase = "/webapp/api"

	loginPath         = apiBase + "/auth/login"
	logoutPath        = apiBase + "/auth/logout"
	captchaVerifyPath = apiBase + "/auth/captcha/verify"
	tfaPath           = apiBase + "/en/webapp-api/user/login/otp"

	currenciesPath       = apiBase + "/marketplace-api/v1/currencies"
	lendingCompaniesPath = apiBase + "/marketplace-api/v1/lending-companies"

	portfolioPath = apiBase + "/en/webapp-api/user/overview-portfolio"
	narPath       = apiBase + "/en/webapp-api/user/overview-net-annual-returns"
	overviewPath  = apiBase + "/en/webapp-api/user/overview-aggregates"

	currentInvestmentsPath  = apiBase + "/marketplace-api/v1/user/note-series/investments/current"
	finishedInvestmentsPath = apiBase + "/marketplace-api/v1/user/note-series/investments/finished"
	noteDetailPath          = apiBase + "/marketplace-api/v1/user/note-series/%s"
	noteSchedulePath        = apiBase + "/marketplace-api/v1/user/note-series/%s/schedule"

	claimsPath      = apiBase + "/en/webapp-api/user/investments"
	claimDetailPath = apiBase + "/en/webapp-api/user/investments/%s"

	loansPath = apiBase + "/marketplace-api/v1/loans"
)
