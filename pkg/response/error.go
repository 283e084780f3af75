package response

const (
	ServerError = "Server error, try again later"
	//----------------------
	Unauthorized       = "Unauthorized"
	AdminOnly          = "Forbidden, Admin users only"
	AdminUseAdminPanel = "Admin accounts must sign in through the admin panel"
	AccountDisabled    = "Account is disabled"
	InvalidSession     = "Invalid or expired session"
	RegistrationClosed = "Registration is disabled"
	UserPassNotMatch   = "Username and password do not match"
	WeakPassword       = "Password is too weak"
	CantChangeOwnRole  = "Cannot change your own role or status"
	NotOwner           = "You can only modify your own content"
	//----------------------
	BadRequestBody  = "Incorrect request body"
	InvalidId       = "Invalid id"
	InvalidAction   = "Invalid action"
	InvalidRating   = "Rating must be an integer between 1 and 5"
	MissingSlug     = "Missing serieSlug parameter"
	TooManySlugs    = "Too many serieSlug values, at most 100 per request"
	ContentTooLong  = "Content is too long"
	InvalidParent   = "Replies can only target top-level comments of the same serie"
	InvalidCategory = "Invalid blog category"
	InvalidEmail    = "Invalid email"
	EmptyContent    = "Content cannot be empty"
	NotEditable     = "Only regular messages can be edited"
	//----------------------
	UserNotFound     = "Cannot find user"
	SerieNotFound    = "Serie not found"
	AnalysisNotFound = "Analysis not found"
	RatingNotFound   = "Rating not found"
	CommentNotFound  = "Comment not found"
	MessageNotFound  = "Message not found"
	PostNotFound     = "Post not found"
	//----------------------
	UsernameAlreadyExist = "This username already exists"
	EmailAlreadyExist    = "This email already exists"
	SlugAlreadyExist     = "This slug already exists"
	AlreadyExist         = "Already exist"
	//----------------------
)
