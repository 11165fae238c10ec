package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"adpress/internal/models"
)

// fieldError describes one rejected request field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() func(any) []fieldError {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("placement", func(fl validator.FieldLevel) bool {
		return models.Placement(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(err)
	}

	return func(s any) []fieldError {
		err := v.Struct(s)
		if err == nil {
			return nil
		}
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return []fieldError{{Message: err.Error()}}
		}
		out := make([]fieldError, 0, len(errs))
		for _, fe := range errs {
			out = append(out, fieldError{Field: fe.Field(), Message: message(fe)})
		}
		return out
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "placement":
		names := make([]string, len(models.Placements))
		for i, p := range models.Placements {
			names[i] = string(p)
		}
		return "must be one of: " + strings.Join(names, ", ")
	default:
		return "is invalid"
	}
}

// Request bodies. UUID fields are parsed only after validation. Post
// meta fields follow search-engine display lengths.

type postRequest struct {
	Title           string  `json:"title" validate:"required,min=5,max=200"`
	Content         string  `json:"content" validate:"required,min=20"`
	ThumbnailURL    *string `json:"thumbnailUrl" validate:"omitempty,url"`
	CategoryID      string  `json:"categoryId" validate:"required,uuid"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=60"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=160"`
	Published       bool    `json:"published"`
}

func (req *postRequest) post() *models.Post {
	return &models.Post{
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		ThumbnailURL:    req.ThumbnailURL,
		CategoryID:      uuid.MustParse(req.CategoryID),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Published:       req.Published,
	}
}

type postPatchRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=5,max=200"`
	Content         *string `json:"content" validate:"omitempty,min=20"`
	ThumbnailURL    *string `json:"thumbnailUrl" validate:"omitempty,url"`
	CategoryID      *string `json:"categoryId" validate:"omitempty,uuid"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=60"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=160"`
	Published       *bool   `json:"published"`
}

func (req *postPatchRequest) patch() *models.PostPatch {
	p := &models.PostPatch{
		Title:           req.Title,
		Content:         req.Content,
		ThumbnailURL:    req.ThumbnailURL,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Published:       req.Published,
	}
	if req.CategoryID != nil {
		id := uuid.MustParse(*req.CategoryID)
		p.CategoryID = &id
	}
	return p
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type adRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Type        string  `json:"type" validate:"required,oneof=image script"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	ScriptCode  *string `json:"scriptCode"`
	Placement   string  `json:"placement" validate:"required,placement"`
	RedirectURL *string `json:"redirectUrl" validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

func (req *adRequest) ad() *models.Ad {
	a := &models.Ad{
		Title:       strings.TrimSpace(req.Title),
		Type:        models.AdType(req.Type),
		ImageURL:    req.ImageURL,
		ScriptCode:  req.ScriptCode,
		Placement:   models.Placement(req.Placement),
		RedirectURL: req.RedirectURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	return a
}

type adPatchRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Type        *string `json:"type" validate:"omitempty,oneof=image script"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	ScriptCode  *string `json:"scriptCode"`
	Placement   *string `json:"placement" validate:"omitempty,placement"`
	RedirectURL *string `json:"redirectUrl" validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

func (req *adPatchRequest) patch() *models.AdPatch {
	p := &models.AdPatch{
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		ScriptCode:  req.ScriptCode,
		RedirectURL: req.RedirectURL,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		t := models.AdType(*req.Type)
		p.Type = &t
	}
	if req.Placement != nil {
		pl := models.Placement(*req.Placement)
		p.Placement = &pl
	}
	return p
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type trackRequest struct {
	AdID string `json:"adId" validate:"required"`
}
