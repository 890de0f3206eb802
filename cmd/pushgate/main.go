package main

import (
	"context"
	"log/slog"
	"os"

	"pushgate/config"
	"pushgate/internal/delivery"
	"pushgate/internal/delivery/http"
	httpmiddleware "pushgate/internal/delivery/http/middleware"
	"pushgate/internal/delivery/http/router/handler"
	deliverymiddleware "pushgate/internal/delivery/middleware"
	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/service"
	"pushgate/internal/infra/fcm"
	"pushgate/internal/infra/firestore"
	"pushgate/internal/infra/googleauth"
	logs "pushgate/internal/infra/log"
	"pushgate/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newAccessTokenService,
			newDeviceTokenResolver,
			newPushDispatcher,
		),
	)
}

// firebaseConfig validates that the process-wide Firebase configuration is
// present. Missing configuration is a startup failure, never a per-request one.
func firebaseConfig(cfg *config.Config) (*config.FirebaseConfig, error) {
	if cfg.Firebase == nil || cfg.Firebase.ProjectID == "" {
		return nil, domainerrors.ErrConfigInvalid.WithDetails("firebase projectId is required")
	}

	return cfg.Firebase, nil
}

// newAccessTokenService builds the credential signer from the configured
// service-account JSON.
func newAccessTokenService(cfg *config.Config) (service.AccessTokenService, error) {
	firebase, err := firebaseConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientEmail, privateKeyPEM, err := firebase.ServiceAccount()
	if err != nil {
		return nil, domainerrors.ErrConfigInvalid.WithDetails(err.Error())
	}

	return googleauth.NewTokenSigner(&entity.ServiceAccountCredential{
		ClientEmail:   clientEmail,
		PrivateKeyPEM: privateKeyPEM,
	})
}

func newDeviceTokenResolver(cfg *config.Config, logger *slog.Logger) (service.DeviceTokenResolver, error) {
	firebase, err := firebaseConfig(cfg)
	if err != nil {
		return nil, err
	}

	return firestore.NewTokenResolver(firebase.ProjectID, logger), nil
}

func newPushDispatcher(cfg *config.Config, logger *slog.Logger) (service.PushDispatcher, error) {
	firebase, err := firebaseConfig(cfg)
	if err != nil {
		return nil, err
	}

	return fcm.NewDispatcher(firebase.ProjectID, logger), nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewPushService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			deliverymiddleware.NewRequestIDMiddleware,
			httpmiddleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
