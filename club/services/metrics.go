package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	objectUploads = promauto.NewCounter(prometheus.CounterOpts{Name: "club_object_uploads", Help: "Object storage uploads"})
	objectDeletes = promauto.NewCounter(prometheus.CounterOpts{Name: "club_object_deletes", Help: "Object storage deletes"})

	thumbnailExtractions = promauto.NewCounter(prometheus.CounterOpts{Name: "club_thumbnail_extractions", Help: "Video thumbnail extractions"})

	tryoutSubmissions = promauto.NewCounter(prometheus.CounterOpts{Name: "club_tryout_submissions", Help: "Accepted tryout submissions"})
	tryoutSpam        = promauto.NewCounter(prometheus.CounterOpts{Name: "club_tryout_spam", Help: "Tryout submissions rejected by the honeypot"})
	tryoutDuplicates  = promauto.NewCounter(prometheus.CounterOpts{Name: "club_tryout_duplicates", Help: "Tryout submissions with an already registered email"})
)
