package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	CredentialsInvalid    = Definition{Code: "CREDENTIALS_INVALID", Message: "Email or password incorrect"}
	Unauthorized          = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID         = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	StaffInactive         = Definition{Code: "STAFF_INACTIVE", Message: "Staff account is not active"}
	InvitationNotFound    = Definition{Code: "INVITATION_NOT_FOUND", Message: "Invitation not found"}
	InvitationAlreadyUsed = Definition{Code: "INVITATION_ALREADY_USED", Message: "Invitation already accepted"}
	TooManyRequests       = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please retry later"}
)

// 引导流程错误。
var (
	OnboardingStepInvalid      = Definition{Code: "ONBOARDING_STEP_INVALID", Message: "Onboarding step invalid"}
	OnboardingStepIncomplete   = Definition{Code: "ONBOARDING_STEP_INCOMPLETE", Message: "Required fields missing for this step"}
	OnboardingStepNotSkippable = Definition{Code: "ONBOARDING_STEP_NOT_SKIPPABLE", Message: "This step cannot be skipped"}
	OnboardingNotFound         = Definition{Code: "ONBOARDING_NOT_FOUND", Message: "No onboarding record for municipality"}
)

// 市民报障模块错误。
var (
	ReportNotFound         = Definition{Code: "REPORT_NOT_FOUND", Message: "Service report not found"}
	ReportCategoryInvalid  = Definition{Code: "REPORT_CATEGORY_INVALID", Message: "Report category invalid"}
	ReportStatusInvalid    = Definition{Code: "REPORT_STATUS_INVALID", Message: "Report status invalid"}
	ReportTransitionDenied = Definition{Code: "REPORT_TRANSITION_DENIED", Message: "Status transition not allowed"}
	ReportPhoneInvalid     = Definition{Code: "REPORT_PHONE_INVALID", Message: "Reporter phone number invalid"}
	SliderRequired         = Definition{Code: "VERIFICATION_SLIDER_REQUIRED", Message: "Slider verification required"}
	SliderFailed           = Definition{Code: "VERIFICATION_SLIDER_FAILED", Message: "Slider verification failed"}
)

// 邀请模块错误。
var (
	InvitationEmailInvalid = Definition{Code: "INVITATION_EMAIL_INVALID", Message: "Invitation email invalid"}
	InvitationRoleInvalid  = Definition{Code: "INVITATION_ROLE_INVALID", Message: "Invitation role invalid"}
	InvitationListEmpty    = Definition{Code: "INVITATION_LIST_EMPTY", Message: "Invitation list is empty"}
)

// 内部组件哨兵错误，不走错误码通道。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator is not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in claims")
	ErrCaptchaTokenRequired         = errors.New("captcha verify token is required")
	ErrCaptchaResponseNil           = errors.New("captcha response is nil")
	ErrCaptchaVerificationFailed    = errors.New("captcha verification failed")
	ErrUnsupportedCaptchaProvider   = errors.New("unsupported captcha provider")
	ErrDatabaseConnectionNil        = errors.New("database connection is nil")
)

// SkipMessageError 表示消息无需重试，消费者 Ack 后直接跳过
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// IsSkipMessageError 判断错误链上是否存在 SkipMessageError
func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	CredentialsInvalid.Code:         CredentialsInvalid,
	Unauthorized.Code:               Unauthorized,
	InvalidUserID.Code:              InvalidUserID,
	StaffInactive.Code:              StaffInactive,
	InvitationNotFound.Code:         InvitationNotFound,
	InvitationAlreadyUsed.Code:      InvitationAlreadyUsed,
	TooManyRequests.Code:            TooManyRequests,
	OnboardingStepInvalid.Code:      OnboardingStepInvalid,
	OnboardingStepIncomplete.Code:   OnboardingStepIncomplete,
	OnboardingStepNotSkippable.Code: OnboardingStepNotSkippable,
	OnboardingNotFound.Code:         OnboardingNotFound,
	ReportNotFound.Code:             ReportNotFound,
	ReportCategoryInvalid.Code:      ReportCategoryInvalid,
	ReportStatusInvalid.Code:        ReportStatusInvalid,
	ReportTransitionDenied.Code:     ReportTransitionDenied,
	ReportPhoneInvalid.Code:         ReportPhoneInvalid,
	SliderRequired.Code:             SliderRequired,
	SliderFailed.Code:               SliderFailed,
	InvitationEmailInvalid.Code:     InvitationEmailInvalid,
	InvitationRoleInvalid.Code:      InvitationRoleInvalid,
	InvitationListEmpty.Code:        InvitationListEmpty,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
