package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizAttemptsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_completed_total",
			Help: "Completed quiz attempts by outcome",
		},
		[]string{"passed"},
	)

	QuizScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score_percent",
			Help:    "Distribution of completed quiz attempt scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	SimulationsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_sessions_completed_total",
			Help: "Completed simulation sessions",
		},
	)

	AchievementsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_awarded_total",
			Help: "Achievements awarded to users",
		},
		[]string{"achievement"},
	)

	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Scheduled reminders and reports issued",
		},
		[]string{"kind"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizAttemptsCompleted,
			QuizScores,
			SimulationsCompleted,
			AchievementsAwarded,
			RemindersSent,
		)
	})
}

// ObserveQuizAttempt 记录一次完成的测验
func ObserveQuizAttempt(score float64, passed bool) {
	QuizAttemptsCompleted.WithLabelValues(strconv.FormatBool(passed)).Inc()
	QuizScores.Observe(score)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
