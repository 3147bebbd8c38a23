package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

const (
	OperationGenerateText  = "/profiler.v1.Profile/GenerateText"
	OperationGenerateImage = "/profiler.v1.Profile/GenerateImage"
	OperationValidate      = "/profiler.v1.Profile/Validate"
)

// RegisterProfileHTTPServer 注册画像服务的 HTTP 路由
func RegisterProfileHTTPServer(s *http.Server, srv *ProfileService) {
	r := s.Route("/")
	r.POST("/generate-text", generateTextHandler(srv))
	r.POST("/generate-image", generateImageHandler(srv))
	r.POST("/validate", validateHandler(srv))
}

func generateTextHandler(srv *ProfileService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.ProfileRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGenerateText)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GenerateText(ctx, req.(*domain.ProfileRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.TextProfile))
	}
}

func generateImageHandler(srv *ProfileService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.ProfileRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGenerateImage)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GenerateImage(ctx, req.(*domain.ProfileRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.ImageProfile))
	}
}

func validateHandler(srv *ProfileService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.ProfileRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationValidate)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Validate(ctx, req.(*domain.ProfileRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*ValidateReply))
	}
}
