package handler

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/service"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type fakeGamificationService struct {
	res *service.TrackResult
	err error
}

func (f *fakeGamificationService) TrackActivity(_ context.Context, userID uint64, activityType model.ActivityType, _ string, pointsEarned *int64) (*service.TrackResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if userID == 0 {
		return nil, service.ErrUserIDMissing
	}
	if pointsEarned != nil && *pointsEarned < 0 {
		return nil, service.ErrPointsInvalid
	}
	return f.res, nil
}

type trackBody struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Data    dto.TrackResultDTO `json:"data"`
}

func doTrack(t *testing.T, svc service.GamificationService, userID uint64, body string) trackBody {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/track", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, NewGamificationHandler(svc, nil).Track)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var out trackBody
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestTrackSuccess(t *testing.T) {
	svc := &fakeGamificationService{res: &service.TrackResult{
		Notification: &dto.NotificationDTO{LevelUp: &dto.LevelUpDTO{NewLevel: 2, PointsEarned: 10}},
	}}

	out := doTrack(t, svc, 1, `{"activity_type":"read_article","target_id":"a-1"}`)
	if out.Code != 200 || !out.Data.Success {
		t.Fatalf("response = %+v", out)
	}
	if out.Data.Notification == nil || out.Data.Notification.LevelUp.NewLevel != 2 {
		t.Fatalf("notification = %+v", out.Data.Notification)
	}
}

func TestTrackValidationErrors(t *testing.T) {
	svc := &fakeGamificationService{res: &service.TrackResult{}}

	tests := []struct {
		name   string
		userID uint64
		body   string
		code   int
	}{
		{"unknown type", 1, `{"activity_type":"share_article"}`, 400},
		{"missing type", 1, `{}`, 400},
		{"negative points", 1, `{"activity_type":"read_article","points_earned":-3}`, 400},
		{"missing user", 0, `{"activity_type":"read_article"}`, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := doTrack(t, svc, tt.userID, tt.body)
			if out.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", out.Code, tt.code, out.Message)
			}
		})
	}
}

func TestTrackStorageFailureReportsUnsuccessful(t *testing.T) {
	svc := &fakeGamificationService{err: &service.PersistenceError{Step: "track_activity", Err: errors.New("disk full")}}

	out := doTrack(t, svc, 1, `{"activity_type":"read_article"}`)
	if out.Code != 200 || out.Data.Success || out.Data.Error != service.UnExpectedError.Error() {
		t.Fatalf("response = %+v, want success=false with generic error", out)
	}
	if strings.Contains(out.Data.Error, "disk full") {
		t.Fatalf("store detail leaked to client: %q", out.Data.Error)
	}

	busy := doTrack(t, &fakeGamificationService{err: service.ErrGamificationBusy}, 1, `{"activity_type":"read_article"}`)
	if busy.Data.Success || busy.Data.Error != service.ErrGamificationBusy.Error() {
		t.Fatalf("busy response = %+v", busy)
	}
}
