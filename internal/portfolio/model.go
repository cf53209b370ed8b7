// Package portfolio defines the four content types of the site and the
// schemas that bind them to the content engine.
package portfolio

import "time"

// Audit is stamped by the engine and the store, never by the caller.
type Audit struct {
	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedBy string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Media struct {
	Type string `bson:"type" json:"type" validate:"required,oneof=image video"`
	Src  string `bson:"src" json:"src" validate:"required,weburl"`
}

type Project struct {
	ID           string   `bson:"_id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Category     string   `bson:"category" json:"category"`
	Status       bool     `bson:"status" json:"status"`
	Description  string   `bson:"description" json:"description"`
	LivePreview  string   `bson:"livePreview,omitempty" json:"livePreview,omitempty"`
	Github       string   `bson:"github,omitempty" json:"github,omitempty"`
	Technologies []string `bson:"technologies" json:"technologies"`
	KeyFeature   string   `bson:"keyFeature,omitempty" json:"keyFeature,omitempty"`
	Inspiration  []string `bson:"inspiration" json:"inspiration"`
	Media        *Media   `bson:"media,omitempty" json:"media,omitempty"`
	Rotation     *float64 `bson:"rotation,omitempty" json:"rotation,omitempty"`
	Audit        `bson:",inline"`
}

type Skill struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name" validate:"required"`
}

type SkillCategory struct {
	ID     string  `bson:"id" json:"id"`
	Title  string  `bson:"title" json:"title" validate:"required"`
	Skills []Skill `bson:"skills" json:"skills" validate:"dive"`
}

type AboutMe struct {
	ID       string          `bson:"_id" json:"id"`
	Name     string          `bson:"name" json:"name"`
	Title    string          `bson:"title" json:"title"`
	Bio      string          `bson:"bio" json:"bio"`
	Location string          `bson:"location,omitempty" json:"location,omitempty"`
	Image    string          `bson:"image,omitempty" json:"image,omitempty"`
	Resume   string          `bson:"resume,omitempty" json:"resume,omitempty"`
	Skills   []SkillCategory `bson:"skills" json:"skills"`
	Audit    `bson:",inline"`
}

type Testimonial struct {
	ID         string `bson:"_id" json:"id"`
	ClientName string `bson:"clientName" json:"clientName"`
	Company    string `bson:"company" json:"company"`
	Role       string `bson:"role" json:"role"`
	Project    string `bson:"project,omitempty" json:"project,omitempty"`
	Message    string `bson:"message" json:"message"`
	Rating     int    `bson:"rating" json:"rating"`
	Approved   bool   `bson:"approved" json:"approved"`
	Image      string `bson:"image,omitempty" json:"image,omitempty"`
	Audit      `bson:",inline"`
}

type Hours struct {
	Weekdays string `bson:"weekdays" json:"weekdays" validate:"required"`
	Weekends string `bson:"weekends" json:"weekends" validate:"required"`
}

type Hotline struct {
	Phone    string `bson:"phone" json:"phone" validate:"required,phone"`
	Location string `bson:"location" json:"location" validate:"required"`
}

type SocialLinks struct {
	Facebook  string `bson:"facebook" json:"facebook" validate:"omitempty,weburl"`
	Instagram string `bson:"instagram" json:"instagram" validate:"omitempty,weburl"`
	Twitter   string `bson:"twitter" json:"twitter" validate:"omitempty,weburl"`
	Linkedin  string `bson:"linkedin" json:"linkedin" validate:"omitempty,weburl"`
}

type Contact struct {
	ID             string      `bson:"_id" json:"id"`
	AvailableHours Hours       `bson:"availableHours" json:"availableHours"`
	Hotline        Hotline     `bson:"hotline" json:"hotline"`
	SocialLinks    SocialLinks `bson:"socialLinks" json:"socialLinks"`
	Audit          `bson:",inline"`
}
