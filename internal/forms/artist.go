package forms

import (
	"net/url"
	"strings"

	"fyyur/internal/models"
)

type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"required,phone"`
	Genres             []string `form:"genres" validate:"dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func (f *ArtistForm) FromValues(values url.Values) {
	f.Name = text(values, "name")
	f.City = text(values, "city")
	f.State = strings.ToUpper(text(values, "state"))
	f.Phone = text(values, "phone")
	f.Genres = list(values, "genres")
	f.ImageLink = text(values, "image_link")
	f.FacebookLink = text(values, "facebook_link")
	f.Website = text(values, "website")
	f.SeekingVenue = checked(values, "seeking_venue")
	f.SeekingDescription = text(values, "seeking_description")
}

func ArtistFormFrom(a *models.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             append([]string(nil), a.Genres...),
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		Website:            a.Website,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

func (f ArtistForm) Validate() error {
	return check("validate artist", f, nil)
}

// Apply overwrites every editable field of a.
func (f ArtistForm) Apply(a *models.Artist) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.Genres = append([]string(nil), f.Genres...)
	a.ImageLink = f.ImageLink
	a.FacebookLink = f.FacebookLink
	a.Website = f.Website
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}

func (f ArtistForm) Has(genre string) bool {
	return contains(f.Genres, genre)
}
