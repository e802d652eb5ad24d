package schema

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAthleteNotFound = errors.New("athlete not found")
	ErrMediaNotFound   = errors.New("media not found")
	ErrSponsorNotFound = errors.New("sponsor not found")
	ErrTryoutNotFound  = errors.New("tryout not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrDbAccessFailed  = errors.New("db access failed")
)

func GetUser(userId uint, db *gorm.DB) (User, error) {
	var user User

	result := db.Preload("Coach").Preload("Athlete").Preload("Prospect").Preload("Alumni").Preload("Images").First(&user, "id = ?", userId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		slog.Error("sql error in get user", "user_id", userId, "error", result.Error)
		return user, ErrDbAccessFailed
	}

	return user, nil
}

func GetAthlete(athleteId uint, db *gorm.DB) (Athlete, error) {
	var athlete Athlete

	result := db.First(&athlete, "id = ?", athleteId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return athlete, ErrAthleteNotFound
		}
		slog.Error("sql error in get athlete", "athlete_id", athleteId, "error", result.Error)
		return athlete, ErrDbAccessFailed
	}

	return athlete, nil
}

func GetMedia(mediaId uint, db *gorm.DB) (Media, error) {
	var media Media

	result := db.First(&media, "id = ?", mediaId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return media, ErrMediaNotFound
		}
		slog.Error("sql error in get media", "media_id", mediaId, "error", result.Error)
		return media, ErrDbAccessFailed
	}

	return media, nil
}

func GetSponsor(sponsorId uint, db *gorm.DB) (Sponsor, error) {
	var sponsor Sponsor

	result := db.First(&sponsor, "id = ?", sponsorId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return sponsor, ErrSponsorNotFound
		}
		slog.Error("sql error in get sponsor", "sponsor_id", sponsorId, "error", result.Error)
		return sponsor, ErrDbAccessFailed
	}

	return sponsor, nil
}

func GetGroup(programId, groupId uint, db *gorm.DB) (Group, error) {
	var group Group

	result := db.Preload("CoachGroupLine").First(&group, "id = ? AND program_id = ?", groupId, programId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return group, ErrGroupNotFound
		}
		slog.Error("sql error in get group", "group_id", groupId, "program_id", programId, "error", result.Error)
		return group, ErrDbAccessFailed
	}

	return group, nil
}
