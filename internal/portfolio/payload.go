package portfolio

import "go.mongodb.org/mongo-driver/bson"

type ProjectInput struct {
	Name         string   `json:"name" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Status       bool     `json:"status"`
	Description  string   `json:"description" validate:"required"`
	LivePreview  string   `json:"livePreview" validate:"omitempty,weburl"`
	Github       string   `json:"github" validate:"omitempty,weburl"`
	Technologies []string `json:"technologies"`
	KeyFeature   string   `json:"keyFeature"`
	Inspiration  []string `json:"inspiration"`
	Media        *Media   `json:"media"`
	Rotation     *float64 `json:"rotation" validate:"omitnil,gte=-360,lte=360"`
}

func (p *ProjectInput) Normalize() {
	trim(&p.Name, &p.Category, &p.Description, &p.LivePreview, &p.Github, &p.KeyFeature)
	p.Technologies = tags(p.Technologies)
	p.Inspiration = tags(p.Inspiration)
	normalizeMedia(p.Media)
}

func (p *ProjectInput) Fields() bson.M {
	set := bson.M{
		"name":         p.Name,
		"category":     p.Category,
		"status":       p.Status,
		"description":  p.Description,
		"technologies": p.Technologies,
		"inspiration":  p.Inspiration,
	}
	if p.LivePreview != "" {
		set["livePreview"] = p.LivePreview
	}
	if p.Github != "" {
		set["github"] = p.Github
	}
	if p.KeyFeature != "" {
		set["keyFeature"] = p.KeyFeature
	}
	if p.Media != nil {
		set["media"] = *p.Media
	}
	if p.Rotation != nil {
		set["rotation"] = *p.Rotation
	}
	return set
}

// Patch types carry pointers so an absent field stays untouched. Optional links
// accept "" to clear them.
type ProjectPatch struct {
	Name         *string   `json:"name" validate:"omitnil,min=1"`
	Category     *string   `json:"category" validate:"omitnil,min=1"`
	Status       *bool     `json:"status"`
	Description  *string   `json:"description" validate:"omitnil,min=1"`
	LivePreview  *string   `json:"livePreview" validate:"omitnil,eq=|weburl"`
	Github       *string   `json:"github" validate:"omitnil,eq=|weburl"`
	Technologies *[]string `json:"technologies"`
	KeyFeature   *string   `json:"keyFeature"`
	Inspiration  *[]string `json:"inspiration"`
	Media        *Media    `json:"media"`
	Rotation     *float64  `json:"rotation" validate:"omitnil,gte=-360,lte=360"`
}

func (p *ProjectPatch) Normalize() {
	trimOpt(p.Name, p.Category, p.Description, p.LivePreview, p.Github, p.KeyFeature)
	if p.Technologies != nil {
		t := tags(*p.Technologies)
		p.Technologies = &t
	}
	if p.Inspiration != nil {
		t := tags(*p.Inspiration)
		p.Inspiration = &t
	}
	normalizeMedia(p.Media)
}

func (p *ProjectPatch) Fields() bson.M {
	set := bson.M{}
	setOpt(set, "name", p.Name)
	setOpt(set, "category", p.Category)
	setOpt(set, "status", p.Status)
	setOpt(set, "description", p.Description)
	setOpt(set, "livePreview", p.LivePreview)
	setOpt(set, "github", p.Github)
	setOpt(set, "technologies", p.Technologies)
	setOpt(set, "keyFeature", p.KeyFeature)
	setOpt(set, "inspiration", p.Inspiration)
	setOpt(set, "media", p.Media)
	setOpt(set, "rotation", p.Rotation)
	return set
}

type AboutInput struct {
	Name     string          `json:"name" validate:"required"`
	Title    string          `json:"title" validate:"required"`
	Bio      string          `json:"bio" validate:"required"`
	Location string          `json:"location"`
	Image    string          `json:"image" validate:"omitempty,weburl"`
	Resume   string          `json:"resume" validate:"omitempty,weburl"`
	Skills   []SkillCategory `json:"skills" validate:"dive"`
}

func (p *AboutInput) Normalize() {
	trim(&p.Name, &p.Title, &p.Bio, &p.Location, &p.Image, &p.Resume)
	p.Skills = normalizeSkills(p.Skills)
}

func (p *AboutInput) Fields() bson.M {
	return bson.M{
		"name":     p.Name,
		"title":    p.Title,
		"bio":      p.Bio,
		"location": p.Location,
		"image":    p.Image,
		"resume":   p.Resume,
		"skills":   p.Skills,
	}
}

type AboutPatch struct {
	Name     *string          `json:"name" validate:"omitnil,min=1"`
	Title    *string          `json:"title" validate:"omitnil,min=1"`
	Bio      *string          `json:"bio" validate:"omitnil,min=1"`
	Location *string          `json:"location"`
	Image    *string          `json:"image" validate:"omitnil,eq=|weburl"`
	Resume   *string          `json:"resume" validate:"omitnil,eq=|weburl"`
	Skills   *[]SkillCategory `json:"skills" validate:"omitnil,dive"`
}

func (p *AboutPatch) Normalize() {
	trimOpt(p.Name, p.Title, p.Bio, p.Location, p.Image, p.Resume)
	if p.Skills != nil {
		s := normalizeSkills(*p.Skills)
		p.Skills = &s
	}
}

func (p *AboutPatch) Fields() bson.M {
	set := bson.M{}
	setOpt(set, "name", p.Name)
	setOpt(set, "title", p.Title)
	setOpt(set, "bio", p.Bio)
	setOpt(set, "location", p.Location)
	setOpt(set, "image", p.Image)
	setOpt(set, "resume", p.Resume)
	setOpt(set, "skills", p.Skills)
	return set
}

type TestimonialInput struct {
	ClientName string `json:"clientName" validate:"required"`
	Company    string `json:"company" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Project    string `json:"project"`
	Message    string `json:"message" validate:"required,min=10"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Approved   bool   `json:"approved"`
	Image      string `json:"image" validate:"omitempty,weburl"`
}

func (p *TestimonialInput) Normalize() {
	trim(&p.ClientName, &p.Company, &p.Role, &p.Project, &p.Message, &p.Image)
}

func (p *TestimonialInput) Fields() bson.M {
	set := bson.M{
		"clientName": p.ClientName,
		"company":    p.Company,
		"role":       p.Role,
		"message":    p.Message,
		"rating":     p.Rating,
		"approved":   p.Approved,
	}
	if p.Project != "" {
		set["project"] = p.Project
	}
	if p.Image != "" {
		set["image"] = p.Image
	}
	return set
}

type TestimonialPatch struct {
	ClientName *string `json:"clientName" validate:"omitnil,min=1"`
	Company    *string `json:"company" validate:"omitnil,min=1"`
	Role       *string `json:"role" validate:"omitnil,min=1"`
	Project    *string `json:"project"`
	Message    *string `json:"message" validate:"omitnil,min=10"`
	Rating     *int    `json:"rating" validate:"omitnil,gte=1,lte=5"`
	Approved   *bool   `json:"approved"`
	Image      *string `json:"image" validate:"omitnil,eq=|weburl"`
}

func (p *TestimonialPatch) Normalize() {
	trimOpt(p.ClientName, p.Company, p.Role, p.Project, p.Message, p.Image)
}

func (p *TestimonialPatch) Fields() bson.M {
	set := bson.M{}
	setOpt(set, "clientName", p.ClientName)
	setOpt(set, "company", p.Company)
	setOpt(set, "role", p.Role)
	setOpt(set, "project", p.Project)
	setOpt(set, "message", p.Message)
	setOpt(set, "rating", p.Rating)
	setOpt(set, "approved", p.Approved)
	setOpt(set, "image", p.Image)
	return set
}

type ContactInput struct {
	AvailableHours *Hours       `json:"availableHours" validate:"required"`
	Hotline        *Hotline     `json:"hotline" validate:"required"`
	SocialLinks    *SocialLinks `json:"socialLinks" validate:"required"`
}

func (p *ContactInput) Normalize() {
	if h := p.AvailableHours; h != nil {
		trim(&h.Weekdays, &h.Weekends)
	}
	if h := p.Hotline; h != nil {
		trim(&h.Phone, &h.Location)
	}
	if s := p.SocialLinks; s != nil {
		trim(&s.Facebook, &s.Instagram, &s.Twitter, &s.Linkedin)
	}
}

func (p *ContactInput) Fields() bson.M {
	set := bson.M{}
	setOpt(set, "availableHours", p.AvailableHours)
	setOpt(set, "hotline", p.Hotline)
	setOpt(set, "socialLinks", p.SocialLinks)
	return set
}

type HoursPatch struct {
	Weekdays *string `json:"weekdays" validate:"omitnil,min=1"`
	Weekends *string `json:"weekends" validate:"omitnil,min=1"`
}

type HotlinePatch struct {
	Phone    *string `json:"phone" validate:"omitnil,phone"`
	Location *string `json:"location" validate:"omitnil,min=1"`
}

type SocialLinksPatch struct {
	Facebook  *string `json:"facebook" validate:"omitnil,eq=|weburl"`
	Instagram *string `json:"instagram" validate:"omitnil,eq=|weburl"`
	Twitter   *string `json:"twitter" validate:"omitnil,eq=|weburl"`
	Linkedin  *string `json:"linkedin" validate:"omitnil,eq=|weburl"`
}

// ContactPatch addresses every leaf on its own, so updating hotline.phone
// leaves hotline.location untouched.
type ContactPatch struct {
	AvailableHours *HoursPatch       `json:"availableHours"`
	Hotline        *HotlinePatch     `json:"hotline"`
	SocialLinks    *SocialLinksPatch `json:"socialLinks"`
}

func (p *ContactPatch) Normalize() {
	if h := p.AvailableHours; h != nil {
		trimOpt(h.Weekdays, h.Weekends)
	}
	if h := p.Hotline; h != nil {
		trimOpt(h.Phone, h.Location)
	}
	if s := p.SocialLinks; s != nil {
		trimOpt(s.Facebook, s.Instagram, s.Twitter, s.Linkedin)
	}
}

func (p *ContactPatch) Fields() bson.M {
	set := bson.M{}
	if h := p.AvailableHours; h != nil {
		setOpt(set, "availableHours.weekdays", h.Weekdays)
		setOpt(set, "availableHours.weekends", h.Weekends)
	}
	if h := p.Hotline; h != nil {
		setOpt(set, "hotline.phone", h.Phone)
		setOpt(set, "hotline.location", h.Location)
	}
	if s := p.SocialLinks; s != nil {
		setOpt(set, "socialLinks.facebook", s.Facebook)
		setOpt(set, "socialLinks.instagram", s.Instagram)
		setOpt(set, "socialLinks.twitter", s.Twitter)
		setOpt(set, "socialLinks.linkedin", s.Linkedin)
	}
	return set
}

// setOpt writes *v under path when v is set.
func setOpt[V any](set bson.M, path string, v *V) {
	if v != nil {
		set[path] = *v
	}
}
