package dto

type LoginReq struct {
	Email      string `form:"email" json:"email"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

func (r *LoginReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, "email", r.Email)
	required(fe, "password", r.Password)
	return fe
}

type RegisterReq struct {
	Email     string `form:"email" json:"email"`
	Username  string `form:"username" json:"username"`
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
}

func (r *RegisterReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, "email", r.Email)
	checkUsername(fe, "username", r.Username)
	checkNewPassword(fe, r.Password, r.Password2)
	return fe
}

type ChangePasswordReq struct {
	OldPassword string `form:"old_password" json:"old_password"`
	Password    string `form:"password" json:"password"`
	Password2   string `form:"password2" json:"password2"`
}

func (r *ChangePasswordReq) Validate() FieldErrors {
	fe := FieldErrors{}
	required(fe, "old_password", r.OldPassword)
	checkNewPassword(fe, r.Password, r.Password2)
	return fe
}

type PasswordResetRequestReq struct {
	Email string `form:"email" json:"email"`
}

func (r *PasswordResetRequestReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, "email", r.Email)
	return fe
}

type PasswordResetReq struct {
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
}

func (r *PasswordResetReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkNewPassword(fe, r.Password, r.Password2)
	return fe
}

type ChangeEmailReq struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r *ChangeEmailReq) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, "email", r.Email)
	required(fe, "password", r.Password)
	return fe
}
