package schema

import (
	"time"
)

const (
	SponsorLevelDiamond  = "Diamond"
	SponsorLevelPlatinum = "Platinum"
	SponsorLevelGold     = "Gold"
	SponsorLevelSilver   = "Silver"
)

type User struct {
	Id uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"size:100;not null" json:"name"`

	IsCoach    bool `gorm:"not null;default:false" json:"isCoach"`
	IsAthlete  bool `gorm:"not null;default:false" json:"isAthlete"`
	IsProspect bool `gorm:"not null;default:false" json:"isProspect"`
	IsAlumni   bool `gorm:"not null;default:false" json:"isAlumni"`
	IsActive   bool `gorm:"not null;default:true" json:"isActive"`
	IsScouted  bool `gorm:"not null;default:false" json:"isScouted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Coach    *Coach      `gorm:"constraint:OnDelete:CASCADE" json:"coach,omitempty"`
	Athlete  *Athlete    `gorm:"constraint:OnDelete:CASCADE" json:"athlete,omitempty"`
	Prospect *Prospect   `gorm:"constraint:OnDelete:CASCADE" json:"prospect,omitempty"`
	Alumni   *Alumni     `gorm:"constraint:OnDelete:CASCADE" json:"alumni,omitempty"`
	Images   *UserImages `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type Coach struct {
	Id     uint `gorm:"primaryKey" json:"id"`
	UserId uint `gorm:"uniqueIndex;not null" json:"userId"`

	Title         string `gorm:"size:100" json:"title"`
	Description   string `json:"description"`
	IsSeniorStaff bool   `gorm:"not null;default:false" json:"isSeniorStaff"`
}

type Athlete struct {
	Id     uint `gorm:"primaryKey" json:"id"`
	UserId uint `gorm:"uniqueIndex;not null" json:"userId"`

	Level string `gorm:"size:50" json:"level"`

	Media        []Media       `gorm:"constraint:OnDelete:CASCADE" json:"media,omitempty"`
	Scores       []Score       `gorm:"constraint:OnDelete:CASCADE" json:"scores,omitempty"`
	Achievements []Achievement `gorm:"constraint:OnDelete:CASCADE" json:"achievements,omitempty"`
	Videos       []Video       `gorm:"constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

type Prospect struct {
	Id     uint `gorm:"primaryKey" json:"id"`
	UserId uint `gorm:"uniqueIndex;not null" json:"userId"`

	School         string     `gorm:"size:200" json:"school"`
	Email          string     `gorm:"size:254" json:"email"`
	Phone          string     `gorm:"size:50" json:"phone"`
	Gpa            *float64   `json:"gpa"`
	GraduationYear *time.Time `json:"graduationYear"`
	Instagram      string     `gorm:"size:200" json:"instagram"`
	Twitter        string     `gorm:"size:200" json:"twitter"`
}

type Alumni struct {
	Id     uint `gorm:"primaryKey" json:"id"`
	UserId uint `gorm:"uniqueIndex;not null" json:"userId"`

	School      string `gorm:"size:200" json:"school"`
	Year        string `gorm:"size:20" json:"year"`
	Description string `json:"description"`
}

// UserImages holds one object storage url per role. A url is empty when the
// user does not have that role or no image was uploaded for it.
type UserImages struct {
	Id     uint `gorm:"primaryKey" json:"id"`
	UserId uint `gorm:"uniqueIndex;not null" json:"userId"`

	StaffUrl    string `gorm:"size:500" json:"staffUrl"`
	AthleteUrl  string `gorm:"size:500" json:"athleteUrl"`
	ProspectUrl string `gorm:"size:500" json:"prospectUrl"`
	AlumniUrl   string `gorm:"size:500" json:"alumniUrl"`
}

type Media struct {
	Id        uint `gorm:"primaryKey" json:"id"`
	AthleteId uint `gorm:"index;not null" json:"athleteId"`

	MediaUrl       string `gorm:"size:500;not null" json:"mediaUrl"`
	MediaType      string `gorm:"size:100;not null" json:"mediaType"`
	VideoThumbnail string `gorm:"size:500" json:"videoThumbnail"`

	Name        string    `gorm:"size:200" json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"size:100" json:"category"`
	Date        time.Time `json:"date"`
}

type Score struct {
	Id        uint `gorm:"primaryKey" json:"id"`
	AthleteId uint `gorm:"index;not null" json:"athleteId"`

	Event       string    `gorm:"size:100" json:"event"`
	Value       float64   `json:"value"`
	Competition string    `gorm:"size:200" json:"competition"`
	Date        time.Time `json:"date"`
}

type Achievement struct {
	Id        uint `gorm:"primaryKey" json:"id"`
	AthleteId uint `gorm:"index;not null" json:"athleteId"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Year        string `gorm:"size:20" json:"year"`
	Description string `json:"description"`
}

type Video struct {
	Id        uint `gorm:"primaryKey" json:"id"`
	AthleteId uint `gorm:"index;not null" json:"athleteId"`

	Url   string    `gorm:"size:500;not null" json:"url"`
	Title string    `gorm:"size:200" json:"title"`
	Date  time.Time `json:"date"`
}

type Sponsor struct {
	Id uint `gorm:"primaryKey" json:"id"`

	Organization  string `gorm:"size:200;not null" json:"organization"`
	SponsorLevel  string `gorm:"size:50" json:"sponsorLevel"`
	Description   string `json:"description"`
	Website       string `gorm:"size:500" json:"website"`
	SponsorImgUrl string `gorm:"size:500" json:"sponsorImgUrl"`
}

// Tryout rows are intake form submissions. Duplicate submissions are rejected
// by the unique index on contact_email rather than an application level check.
type Tryout struct {
	Id uint `gorm:"primaryKey" json:"id"`

	AthleteFirstName string    `gorm:"size:100" json:"athleteFirstName"`
	AthleteLastName  string    `gorm:"size:100" json:"athleteLastName"`
	DoB              time.Time `json:"DoB"`
	ExperienceYears  int       `json:"experienceYears"`
	HoursPerWeek     int       `json:"hoursPerWeek"`

	ContactName  string `gorm:"size:200" json:"contactName"`
	ContactEmail string `gorm:"uniqueIndex;size:254;not null" json:"contactEmail"`
	ContactPhone string `gorm:"size:50" json:"contactPhone"`

	ReadStatus bool      `gorm:"not null;default:false" json:"readStatus"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Group struct {
	Id        uint `gorm:"primaryKey" json:"id"`
	ProgramId uint `gorm:"index;not null" json:"programId"`

	Name        string `gorm:"size:200" json:"name"`
	Description string `json:"description"`

	CoachGroupLine *CoachGroupLine `gorm:"constraint:OnDelete:CASCADE" json:"coachGroupLine,omitempty"`
}

// CoachGroupLine links a group to the coach running it. At most one line
// exists per group.
type CoachGroupLine struct {
	Id      uint `gorm:"primaryKey" json:"id"`
	GroupId uint `gorm:"uniqueIndex;not null" json:"groupId"`
	CoachId uint `gorm:"not null" json:"coachId"`
}

func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Coach{}, &Athlete{}, &Prospect{}, &Alumni{}, &UserImages{},
		&Media{}, &Score{}, &Achievement{}, &Video{},
		&Sponsor{}, &Tryout{}, &Group{}, &CoachGroupLine{},
	}
}
