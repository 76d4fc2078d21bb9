package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type ControllerRoutes struct {
	Index          string
	Signup         string
	Update         string
	UpdatePassword string
	Login          string
	Logout         string
	TokenObtain    string
	TokenRefresh   string
	TokenVerify    string
}

// Controller exposes the user directory and session endpoints over fiber
type Controller struct {
	Debug        bool
	Logger       Logger
	Directory    UserDirectory
	Auther       *Auther
	Sessions     *SessionAttacher
	Guard        *Guard
	Routes       *ControllerRoutes
	ActivitySink ActivitySink
}

type ControllerOption func(*Controller) *Controller

func WithDirectory(directory UserDirectory) ControllerOption {
	return func(c *Controller) *Controller {
		c.Directory = directory
		return c
	}
}

func WithAuther(auther *Auther) ControllerOption {
	return func(c *Controller) *Controller {
		c.Auther = auther
		return c
	}
}

func WithSessions(sessions *SessionAttacher) ControllerOption {
	return func(c *Controller) *Controller {
		c.Sessions = sessions
		return c
	}
}

func WithGuard(guard *Guard) ControllerOption {
	return func(c *Controller) *Controller {
		c.Guard = guard
		return c
	}
}

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

func WithControllerActivitySink(sink ActivitySink) ControllerOption {
	return func(c *Controller) *Controller {
		c.ActivitySink = normalizeActivitySink(sink)
		return c
	}
}

func WithDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       defLogger{},
		ActivitySink: noopActivitySink{},
		Routes: &ControllerRoutes{
			Index:          "/api/",
			Signup:         "/api/signup/",
			Update:         "/api/update/:pk",
			UpdatePassword: "/api/update_password/:pk",
			Login:          "/api/login",
			Logout:         "/api/logout",
			TokenObtain:    "/api/token/",
			TokenRefresh:   "/api/token/refresh/",
			TokenVerify:    "/api/token/verify/",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Directory == nil {
		panic("Missing UserDirectory in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionAttacher in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing Guard in auth controller...")
	}

	return c
}

// RegisterRoutes builds a Controller from opts and mounts it on r
func RegisterRoutes(r fiber.Router, opts ...ControllerOption) *Controller {
	c := NewController(opts...)
	c.Mount(r)
	return c
}

// Mount registers the controller routes on r
func (a *Controller) Mount(r fiber.Router) {
	g := a.Guard

	r.Get(a.Routes.Index, a.Index)
	r.Post(a.Routes.Signup, a.Signup)
	r.Patch(a.Routes.Update, g.OnlyOwner("pk", a.Update))
	r.Patch(a.Routes.UpdatePassword, g.OnlyOwner("pk", a.UpdatePassword))
	r.Post(a.Routes.Login, g.OnlyLoggedOut(a.Login))
	r.Delete(a.Routes.Logout, g.RequireAuth(a.Logout))
	r.Post(a.Routes.TokenObtain, a.TokenObtain)
	r.Post(a.Routes.TokenRefresh, a.TokenRefresh)
	r.Post(a.Routes.TokenVerify, a.TokenVerify)
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
	}
}

func (a *Controller) Index(ctx *fiber.Ctx) error {
	records, err := a.Directory.List(ctx.UserContext())
	if err != nil {
		return err
	}

	out := make([]UserResponse, 0, len(records))
	for _, u := range records {
		out = append(out, toUserResponse(u))
	}

	return ctx.Status(fiber.StatusOK).JSON(out)
}

// SignupPayload is the registration payload
type SignupPayload struct {
	UserName string `json:"user_name" form:"user_name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.Required, validation.Length(1, UserNameMaxLength)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) Signup(ctx *fiber.Ctx) error {
	payload := new(SignupPayload)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	user, err := a.Directory.Create(ctx.UserContext(), payload.UserName, payload.Email, payload.Password)
	if err != nil {
		return err
	}

	emitActivity(ctx.UserContext(), a.ActivitySink, a.Logger, ActivityEventSignup, user.ID, nil)

	if err := a.Sessions.Attach(ctx, NewIdentityFromUser(user)); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

// UpdatePayload holds the profile fields an owner may change
type UpdatePayload struct {
	UserName *string `json:"user_name" form:"user_name"`
	Email    *string `json:"email" form:"email"`
}

// Validate will validate the payload
func (r UpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.NilOrNotEmpty, validation.Length(1, UserNameMaxLength)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

func (a *Controller) Update(ctx *fiber.Ctx, ac *AuthContext) error {
	payload := new(UpdatePayload)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	return a.applyUpdate(ctx, ac, UserUpdate{
		UserName: payload.UserName,
		Email:    payload.Email,
	}, ActivityEventUserUpdated)
}

// PasswordPayload holds a new password
type PasswordPayload struct {
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r PasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) UpdatePassword(ctx *fiber.Ctx, ac *AuthContext) error {
	payload := new(PasswordPayload)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	return a.applyUpdate(ctx, ac, UserUpdate{
		Password: &payload.Password,
	}, ActivityEventPasswordUpdate)
}

func (a *Controller) applyUpdate(ctx *fiber.Ctx, ac *AuthContext, fields UserUpdate, event ActivityEventType) error {
	user, err := a.caller(ctx, ac)
	if err != nil {
		return err
	}

	updated, err := a.Directory.ApplyUpdate(ctx.UserContext(), user, fields)
	if err != nil {
		return err
	}

	emitActivity(ctx.UserContext(), a.ActivitySink, a.Logger, event, updated.ID, nil)

	if err := a.Sessions.Attach(ctx, NewIdentityFromUser(updated)); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(toUserResponse(updated))
}

// caller returns the user record the guard already loaded, hitting the
// directory only for identities that do not carry one.
func (a *Controller) caller(ctx *fiber.Ctx, ac *AuthContext) (*User, error) {
	if ac != nil {
		if ui, ok := ac.Identity.(UserIdentity); ok && ui.User() != nil {
			return ui.User(), nil
		}
	}
	return a.Directory.FindByID(ctx.UserContext(), ac.UserID())
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) Login(ctx *fiber.Ctx, _ *AuthContext) error {
	payload := new(LoginRequest)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	if a.Debug {
		a.Logger.Debug("login attempt", "email", redactEmail(payload.Email))
	}

	user, err := a.Auther.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	if err := a.Sessions.Attach(ctx, NewIdentityFromUser(user)); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

// Logout clears the session cookies. Tokens already copied elsewhere stay
// valid until they expire, there is no server side revocation.
func (a *Controller) Logout(ctx *fiber.Ctx, ac *AuthContext) error {
	a.Sessions.Detach(ctx)
	emitActivity(ctx.UserContext(), a.ActivitySink, a.Logger, ActivityEventLogout, ac.UserID(), nil)
	return ctx.SendStatus(fiber.StatusOK)
}

func (a *Controller) TokenObtain(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	pair, err := a.Auther.Obtain(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(pair)
}

// RefreshRequest carries a refresh token. When empty the refresh cookie is used.
type RefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh"`
}

func (a *Controller) TokenRefresh(ctx *fiber.Ctx) error {
	payload := new(RefreshRequest)
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(payload); err != nil {
			return badPayload(err)
		}
	}

	token := strings.TrimSpace(payload.Refresh)
	if token == "" {
		token = strings.TrimSpace(ctx.Cookies(a.Sessions.refreshCookie))
	}

	if err := validation.Validate(token, validation.Required); err != nil {
		return validationFailure(validation.Errors{"refresh": err})
	}

	pair, err := a.Auther.Refresh(ctx.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenType) {
			return ErrUnauthenticated
		}
		return err
	}

	a.Sessions.AttachPair(ctx, pair)

	return ctx.Status(fiber.StatusCreated).JSON(pair)
}

// VerifyRequest carries any token to check
type VerifyRequest struct {
	Token string `json:"token" form:"token"`
}

// Validate will run validation rules
func (r VerifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

func (a *Controller) TokenVerify(ctx *fiber.Ctx) error {
	payload := new(VerifyRequest)
	if err := a.bind(ctx, payload); err != nil {
		return err
	}

	if err := a.Auther.CheckToken(payload.Token); err != nil {
		return ErrUnauthenticated
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{})
}

type validatable interface {
	Validate() error
}

func (a *Controller) bind(ctx *fiber.Ctx, payload validatable) error {
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("parse payload", "path", ctx.Path(), "error", err)
		return badPayload(err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("validate payload", "path", ctx.Path(), "error", err)
		return validationFailure(err)
	}

	return nil
}

func badPayload(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
		WithTextCode(TextCodeValidation).
		WithCode(errors.CodeBadRequest)
}

func validationFailure(err error) error {
	return errors.New("invalid payload", errors.CategoryValidation).
		WithTextCode(TextCodeValidation).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"fields": FormatValidationErrorToMap(err),
		})
}

// FormatValidationErrorToMap flattens ozzo validation errors into field -> message
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

// ErrorResponse is the JSON body rendered for failed requests
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorHandler renders errors returned by handlers and guards. Use it as
// the fiber.Config ErrorHandler.
func (a *Controller) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error:   "HTTP_ERROR",
			Message: fiberErr.Message,
		})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := StatusCode(richErr)

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error(
			"request failed",
			"error", err,
			"category", richErr.Category,
			"path", c.Path(),
		)
	} else if a.Debug {
		a.Logger.Debug(
			"request rejected",
			"error", richErr.Message,
			"status", status,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	res := ErrorResponse{
		Error:   richErr.TextCode,
		Message: richErr.Message,
	}

	if status >= fiber.StatusInternalServerError {
		res.Message = "internal server error"
	}

	if res.Error == "" {
		res.Error = strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
	}

	if fields, ok := richErr.Metadata["fields"].(map[string]string); ok {
		res.Fields = fields
	}

	return c.Status(status).JSON(res)
}
