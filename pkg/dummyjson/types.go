package dummyjson

import "github.com/shopspring/decimal"

// Product is a catalog entry. Price is kept as a decimal so totals computed
// from it do not drift.
type Product struct {
	ID                 int             `json:"id"`
	Title              string          `json:"title" validate:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage float64         `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Stock              int             `json:"stock" validate:"gte=0"`
	Brand              string          `json:"brand,omitempty"`
	Category           string          `json:"category"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
	Tags               []string        `json:"tags,omitempty"`
}

func (p Product) EntityID() int { return p.ID }

func (p Product) WithEntityID(id int) Product {
	p.ID = id
	return p
}

type Reactions struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	UserID    int       `json:"userId"`
	Tags      []string  `json:"tags"`
	Reactions Reactions `json:"reactions"`
	Views     int       `json:"views,omitempty"`
}

func (p Post) EntityID() int { return p.ID }

func (p Post) WithEntityID(id int) Post {
	p.ID = id
	return p
}

// CommentUser is the author summary embedded in a comment.
type CommentUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
}

type Comment struct {
	ID     int         `json:"id"`
	Body   string      `json:"body" validate:"required"`
	PostID int         `json:"postId"`
	Likes  int         `json:"likes,omitempty"`
	User   CommentUser `json:"user"`
}

func (c Comment) EntityID() int { return c.ID }

func (c Comment) WithEntityID(id int) Comment {
	c.ID = id
	return c
}

// Category is one entry of /products/categories.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

type PostPage struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// LoginResponse is the /auth/login payload. Older deployments answer with
// token, newer ones with accessToken.
type LoginResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	Token        string `json:"token,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// BearerToken returns whichever token field the API filled in.
func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// RegisterInput is the body of /users/add.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RemoteUser is the profile echoed back by /users/add.
type RemoteUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image,omitempty"`
}
