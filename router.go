package authform

// page paths served by the auth web app
const (
	routeLogin          = "/login"
	routeLogout         = "/logout"
	routeForgotPassword = "/request-reset"
	routeResetPassword  = "/reset-password"
	routeRenewPassword  = "/renew-password"
)

// element ids rendered by the auth pages
const (
	idFormLogin          = "formLogin"
	idFormGuestLogin     = "formGuest"
	idFormSubmitToken    = "formSubmitToken"
	idFormForgotPassword = "formForgot"
	idFormResetPassword  = "formReset"
	idFormPasswordChange = "formRenew"

	idForgotPassword = "forgotLink"
	idLoginLink      = "loginLink"
	idLogout         = "btn-logout"

	idTokenBox     = "tokenBox"
	idRedirectPath = "redirectPath"
)

// Routes holds the page paths a Client opens.
type Routes struct {
	Login          string
	Logout         string
	ForgotPassword string
	ResetPassword  string
	RenewPassword  string
}

func DefaultRoutes() Routes {
	return Routes{
		Login:          routeLogin,
		Logout:         routeLogout,
		ForgotPassword: routeForgotPassword,
		ResetPassword:  routeResetPassword,
		RenewPassword:  routeRenewPassword,
	}
}

// Elements holds the ids of the page elements the flows bind to.
type Elements struct {
	LoginForm          string
	GuestLoginForm     string
	SubmitTokenForm    string
	ForgotPasswordForm string
	ResetPasswordForm  string
	PasswordChangeForm string

	ForgotPasswordLink string
	LoginLink          string
	Logout             string

	// TokenBox holds the bearer token as text on the password change page.
	TokenBox string
	// RedirectPath holds, as text, where the password change page leads.
	RedirectPath string
}

func DefaultElements() Elements {
	return Elements{
		LoginForm:          idFormLogin,
		GuestLoginForm:     idFormGuestLogin,
		SubmitTokenForm:    idFormSubmitToken,
		ForgotPasswordForm: idFormForgotPassword,
		ResetPasswordForm:  idFormResetPassword,
		PasswordChangeForm: idFormPasswordChange,
		ForgotPasswordLink: idForgotPassword,
		LoginLink:          idLoginLink,
		Logout:             idLogout,
		TokenBox:           idTokenBox,
		RedirectPath:       idRedirectPath,
	}
}
