package dto

type EditProfileReq struct {
	Name     string `form:"name" json:"name"`
	Location string `form:"location" json:"location"`
	AboutMe  string `form:"about_me" json:"about_me"`
}

func (r *EditProfileReq) Validate() FieldErrors {
	fe := FieldErrors{}
	maxLength(fe, "name", r.Name, 64)
	maxLength(fe, "location", r.Location, 64)
	return fe
}

// EditProfileAdminReq is the administrator's version of the profile form.
type EditProfileAdminReq struct {
	Email     string `form:"email" json:"email"`
	Username  string `form:"username" json:"username"`
	Confirmed bool   `form:"confirmed" json:"confirmed"`
	RoleID    uint   `form:"role" json:"role"`
	Name      string `form:"name" json:"name"`
	Location  string `form:"location" json:"location"`
	AboutMe   string `form:"about_me" json:"about_me"`
}

func (r *EditProfileAdminReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, "email", r.Email)
	checkUsername(fe, "username", r.Username)
	if r.RoleID == 0 {
		fe.Add("role", "This field is required.")
	}
	maxLength(fe, "name", r.Name, 64)
	maxLength(fe, "location", r.Location, 64)
	return fe
}

// PostReq carries a post body, both from the web form and the API.
type PostReq struct {
	Body string `form:"body" json:"body"`
}

func (r *PostReq) Validate() FieldErrors {
	fe := FieldErrors{}
	if !required(fe, "body", r.Body) {
		fe["body"] = "post does not have a body"
	}
	return fe
}

type CommentReq struct {
	Body string `form:"body" json:"body"`
}

func (r *CommentReq) Validate() FieldErrors {
	fe := FieldErrors{}
	if !required(fe, "body", r.Body) {
		fe["body"] = "comment does not have a body"
	}
	return fe
}

// MailTask is the payload pushed onto the mail queue.
type MailTask struct {
	NotificationID uint `json:"notification_id"`
}
