package service

type RegisterInput struct {
	Username string `json:"username" validate:"notblank,trimmed,maxbytes=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"notblank,maxbytes=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}
