package service

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

var (
	ErrInvalidID   = fmt.Errorf("%w: ID 格式无效", pkgerrors.ErrValidation)
	ErrInvalidDate = fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", pkgerrors.ErrValidation)
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// parseOptionalDate 空指针或空串返回 nil
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dto.DateLayout)
}

var ErrForeignData = fmt.Errorf("%w: 学生只能访问自己的数据", pkgerrors.ErrForbidden)

// resolveTarget 确定被访问的用户：学生总是自己，员工 / 管理员可指定他人，未指定时为自己
func resolveTarget(viewer, viewerRole, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == viewer {
		return viewer, nil
	}
	if !model.IsStaffRole(viewerRole) {
		return "", ErrForeignData
	}
	return requested, nil
}
