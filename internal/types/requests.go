package types

// RegisterRequest is the body of POST /api/users/
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// RecipeIngredientInput is one {id, amount} entry of a recipe payload
type RecipeIngredientInput struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,min=1"`
}

// RecipeRequest is shared by create and update; updates replace everything
type RecipeRequest struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" binding:"required,min=1,unique=ID,dive"`
	Tags        []uint                  `json:"tags" binding:"required,min=1,unique"`
	Image       string                  `json:"image" binding:"required"`
	Name        string                  `json:"name" binding:"required,max=256"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"required,min=1"`
}

// RecipeFilter carries the list query of GET /api/recipes/
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// PageRequest is a 1-based page and a page size
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the number of rows preceding the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
