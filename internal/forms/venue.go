package forms

import (
	"net/url"
	"strings"

	"fyyur/internal/models"
)

type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"required,phone"`
	Genres             []string `form:"genres" validate:"dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// FromValues reads a submitted venue form.
func (f *VenueForm) FromValues(values url.Values) {
	f.Name = text(values, "name")
	f.City = text(values, "city")
	f.State = strings.ToUpper(text(values, "state"))
	f.Address = text(values, "address")
	f.Phone = text(values, "phone")
	f.Genres = list(values, "genres")
	f.ImageLink = text(values, "image_link")
	f.FacebookLink = text(values, "facebook_link")
	f.Website = text(values, "website")
	f.SeekingTalent = checked(values, "seeking_talent")
	f.SeekingDescription = text(values, "seeking_description")
}

// VenueFormFrom pre-populates the edit form.
func VenueFormFrom(v *models.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             append([]string(nil), v.Genres...),
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		Website:            v.Website,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

func (f VenueForm) Validate() error {
	return check("validate venue", f, nil)
}

// Apply overwrites every editable field of v.
func (f VenueForm) Apply(v *models.Venue) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.Genres = append([]string(nil), f.Genres...)
	v.ImageLink = f.ImageLink
	v.FacebookLink = f.FacebookLink
	v.Website = f.Website
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}

// Has reports whether genre is selected, for the multi-select.
func (f VenueForm) Has(genre string) bool {
	return contains(f.Genres, genre)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
