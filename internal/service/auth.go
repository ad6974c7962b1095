package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/internal/model/dto"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/snowflake"
	"CivicLink/pkg/token"
	"CivicLink/storage/database"
	"CivicLink/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Login 员工邮箱密码登录
// 密码错误和账号不存在返回同一个错误，不暴露账号是否存在
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var staff model.StaffMember
	err := database.DB().WithContext(ctx).
		Where("email = ?", req.Email).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.CredentialsInvalid
		}
		return nil, fmt.Errorf("failed to query staff member: %w", err)
	}

	if staff.PasswordHash != utils.HashPassword(req.Password) {
		return nil, pkgerrors.CredentialsInvalid
	}

	if staff.Status != model.StaffStatusActive {
		return nil, pkgerrors.StaffInactive
	}

	staffID := fmt.Sprintf("%d", staff.PublicID)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, staffID, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token",
			zap.String("staff_id", staffID),
			zap.Error(err),
		)
	}

	now := time.Now()
	database.DB().WithContext(ctx).Model(&model.StaffMember{}).
		Where("id = ?", staff.ID).
		Update("last_login_at", now)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		Staff:        staffSnapshot(&staff),
	}, nil
}

// RefreshToken 用 refresh token 换新的 token 对，旧的轮换失效
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	staffID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, staffID, refreshToken) {
		return nil, pkgerrors.Unauthorized
	}

	staff, err := findStaffByPublicID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.Status != model.StaffStatusActive {
		return nil, pkgerrors.StaffInactive
	}

	accessToken, newRefreshToken, expiresIn, err := token.GenerateTokenPair(staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, staffID, newRefreshToken); err != nil {
		logger.Logger.Warn("Failed to rotate refresh token",
			zap.String("staff_id", staffID),
			zap.Error(err),
		)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// AcceptInvitation 受邀员工激活账号，邀请 token 一次有效
func (s *AuthService) AcceptInvitation(ctx context.Context, req *dto.AcceptInvitationRequest) (*dto.LoginResponse, error) {
	var invitation model.StaffInvitation
	err := database.DB().WithContext(ctx).
		Where("token = ?", req.Token).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.InvitationNotFound
		}
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}

	if invitation.Status == model.InvitationStatusAccepted {
		return nil, pkgerrors.InvitationAlreadyUsed
	}
	if invitation.Status == model.InvitationStatusExpired || time.Now().After(invitation.ExpiresAt) {
		return nil, pkgerrors.InvitationNotFound
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate staff public id: %w", err)
	}

	now := time.Now()
	staff := &model.StaffMember{
		PublicID:       publicID,
		MunicipalityID: invitation.MunicipalityID,
		Email:          invitation.Email,
		PasswordHash:   utils.HashPassword(req.Password),
		FullName:       req.FullName,
		Role:           invitation.Role,
		Status:         model.StaffStatusActive,
	}

	// 建账号和核销邀请必须一起成功
	err = database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		return tx.Model(&model.StaffInvitation{}).
			Where("id = ?", invitation.ID).
			Updates(map[string]interface{}{
				"status":      model.InvitationStatusAccepted,
				"accepted_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate staff member: %w", err)
	}

	staffID := fmt.Sprintf("%d", staff.PublicID)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, staffID, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token",
			zap.String("staff_id", staffID),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Staff member activated via invitation",
		zap.Int64("invitation_id", invitation.ID),
		zap.Int64("municipality_id", invitation.MunicipalityID),
		zap.String("role", string(invitation.Role)),
	)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		Staff:        staffSnapshot(staff),
	}, nil
}

// Logout 注销，删掉 refresh token
func (s *AuthService) Logout(ctx context.Context, staffID string) error {
	return cache.DeleteRefreshToken(ctx, staffID)
}

func staffSnapshot(staff *model.StaffMember) dto.StaffSnapshot {
	return dto.StaffSnapshot{
		ID:             fmt.Sprintf("%d", staff.PublicID),
		MunicipalityID: fmt.Sprintf("%d", staff.MunicipalityID),
		Email:          staff.Email,
		FullName:       staff.FullName,
		Role:           string(staff.Role),
		Status:         string(staff.Status),
	}
}
