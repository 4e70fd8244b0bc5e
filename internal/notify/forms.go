package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/sanitize"
)

// Kind names a public form. It doubles as the metrics label and the River
// job tag.
type Kind string

const (
	KindContact             Kind = "contact"
	KindPodcastGuest        Kind = "podcast-guest"
	KindDisabilityInclusion Kind = "disability-inclusion"
	KindUdaanTalk           Kind = "udaan-talk"
)

const (
	msgRequired        = "All required fields must be provided"
	msgSpeakerRequired = "Topic and description are required for speakers"
	msgInvalidEmail    = "Please provide a valid email address"
	msgInvalidBioLink  = "Bio link must be a valid http or https URL"
)

// Form is a public submission that turns into an organisation notification
// and a confirmation for the submitter.
type Form interface {
	Kind() Kind
	// Submitter is the address the confirmation goes to and the org email
	// replies to.
	Submitter() string
	normalize()
	orgSubject() string
	confirmationSubject() string
}

type ContactForm struct {
	FullName      Text `json:"fullName" validate:"required"`
	Email         Text `json:"email" validate:"required,email"`
	ContactNumber Text `json:"contactNumber" validate:"required"`
	Subject       Text `json:"subject" validate:"required"`
	Message       Text `json:"message" validate:"required"`
}

func (f *ContactForm) Kind() Kind        { return KindContact }
func (f *ContactForm) Submitter() string { return string(f.Email) }

func (f *ContactForm) normalize() {
	clean(&f.FullName, &f.Email, &f.ContactNumber, &f.Subject, &f.Message)
}

func (f *ContactForm) orgSubject() string {
	return "Contact Form: " + string(f.Subject)
}

func (f *ContactForm) confirmationSubject() string {
	return "Thank you for contacting Pankho Ki Udaan"
}

type PodcastGuestForm struct {
	FullName      Text `json:"fullName" validate:"required"`
	Email         Text `json:"email" validate:"required,email"`
	ContactNumber Text `json:"contactNumber" validate:"required"`
	GuestName     Text `json:"guestName" validate:"required"`
	Topic         Text `json:"topic" validate:"required"`
	WhyMatters    Text `json:"whyMatters" validate:"required"`
	BioLink       Text `json:"bioLink" validate:"omitempty,weblink"`
}

func (f *PodcastGuestForm) Kind() Kind        { return KindPodcastGuest }
func (f *PodcastGuestForm) Submitter() string { return string(f.Email) }

func (f *PodcastGuestForm) normalize() {
	clean(&f.FullName, &f.Email, &f.ContactNumber, &f.GuestName, &f.Topic, &f.WhyMatters, &f.BioLink)
}

func (f *PodcastGuestForm) orgSubject() string {
	return "Podcast Guest Suggestion: " + string(f.GuestName)
}

func (f *PodcastGuestForm) confirmationSubject() string {
	return "Podcast Guest Suggestion Received - Pankho Ki Udaan"
}

type DisabilityInclusionForm struct {
	FullName      Text `json:"fullName" validate:"required"`
	Age           Text `json:"age" validate:"required"`
	ContactNumber Text `json:"contactNumber" validate:"required"`
	Email         Text `json:"email" validate:"required,email"`
	SupportType   Text `json:"supportType" validate:"required"`
	Message       Text `json:"message" validate:"required"`
}

func (f *DisabilityInclusionForm) Kind() Kind        { return KindDisabilityInclusion }
func (f *DisabilityInclusionForm) Submitter() string { return string(f.Email) }

func (f *DisabilityInclusionForm) normalize() {
	clean(&f.FullName, &f.Age, &f.ContactNumber, &f.Email, &f.SupportType, &f.Message)
}

func (f *DisabilityInclusionForm) orgSubject() string {
	return "Disability Inclusion Support Request: " + string(f.SupportType)
}

func (f *DisabilityInclusionForm) confirmationSubject() string {
	return "Support Request Received - Pankho Ki Udaan"
}

// ParticipationSpeaker is the participation type that needs a talk topic.
const ParticipationSpeaker = "speaker"

type UdaanTalkForm struct {
	FullName          Text     `json:"fullName" validate:"required"`
	Age               Text     `json:"age" validate:"required"`
	DateOfBirth       Text     `json:"dateOfBirth"`
	Gender            Text     `json:"gender" validate:"required"`
	Email             Text     `json:"email" validate:"required,email"`
	MobileNumber      Text     `json:"mobileNumber" validate:"required"`
	College           Text     `json:"college" validate:"required"`
	Department        Text     `json:"department"`
	ParticipationType Text     `json:"participationType" validate:"required"`
	Topic             Text     `json:"topic" validate:"required_if=ParticipationType speaker"`
	Description       Text     `json:"description" validate:"required_if=ParticipationType speaker"`
	PreferredLanguage TextList `json:"preferredLanguage" validate:"required,min=1"`
	SpokenBefore      Text     `json:"spokenBefore" validate:"required"`
	WhyParticipate    Text     `json:"whyParticipate" validate:"required"`
	MediaConsent      Flag     `json:"mediaConsent" validate:"required"`
	Declaration       Flag     `json:"declaration" validate:"required"`
}

func (f *UdaanTalkForm) Kind() Kind        { return KindUdaanTalk }
func (f *UdaanTalkForm) Submitter() string { return string(f.Email) }

func (f *UdaanTalkForm) normalize() {
	clean(&f.FullName, &f.Age, &f.DateOfBirth, &f.Gender, &f.Email, &f.MobileNumber,
		&f.College, &f.Department, &f.ParticipationType, &f.Topic, &f.Description,
		&f.SpokenBefore, &f.WhyParticipate)
	f.PreferredLanguage = sanitize.FormValues(f.PreferredLanguage)
}

// IsSpeaker reports whether the registrant wants to give a talk.
func (f *UdaanTalkForm) IsSpeaker() bool {
	return string(f.ParticipationType) == ParticipationSpeaker
}

func (f *UdaanTalkForm) orgSubject() string {
	return fmt.Sprintf("Udaan Talk Registration: %s - %s", f.FullName, f.ParticipationType)
}

func (f *UdaanTalkForm) confirmationSubject() string {
	return "Udaan Talk Registration Confirmation"
}

func clean(values ...*Text) {
	for _, v := range values {
		*v = Text(sanitize.FormValue(string(*v)))
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("weblink", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})
	return v
}

// check reports the first problem with a normalized form. Missing fields win
// over malformed ones so the messages match what the site expects.
func check(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("Failed to validate submission", err)
	}

	var speaker, email, link bool
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required" || fe.Tag() == "min":
			return apperr.Validation(msgRequired)
		case fe.Tag() == "required_if":
			speaker = true
		case fe.Tag() == "email":
			email = true
		case fe.Tag() == "weblink":
			link = true
		}
	}
	switch {
	case speaker:
		return apperr.Validation(msgSpeakerRequired)
	case email:
		return apperr.Validation(msgInvalidEmail)
	case link:
		return apperr.Validation(msgInvalidBioLink)
	}
	return apperr.Validation(strings.TrimSpace(verrs.Error()))
}
