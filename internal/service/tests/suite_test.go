package tests

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/cart"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/checkout"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/kafka"
	outboxRepository "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/worker"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/testsuite"
)

const testSecurityCode = "1511"

type IntegrationTestSuite struct {
	testsuite.BaseSuite

	Carts               *cart.Store
	Stash               checkout.Stash
	AuthService         service.AuthService
	OrderService        service.OrderService
	SubscriptionService service.SubscriptionService
	MenuService         service.MenuService
	TestProducer        kafka.Producer
	OutboxProcessor     *worker.OutboxProcessor
	workerCancel        context.CancelFunc
}

func (s *IntegrationTestSuite) SetupSuite() {
	os.Setenv("ACCESS_SECRET", "test-access-secret")
	os.Setenv("REFRESH_SECRET", "test-refresh-secret")

	s.BaseSuite.SetupInfrastructure("../../../migrations")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *IntegrationTestSuite) SetupTest() {
	s.BaseSuite.TruncateTable("outbox")
	s.BaseSuite.TruncateTable("processed_events")
	s.BaseSuite.TruncateTable("checkout_intents")
	s.BaseSuite.TruncateTable("order_items")
	s.BaseSuite.TruncateTable("orders")
	s.BaseSuite.TruncateTable("subscriptions")
	s.BaseSuite.TruncateTable("menu_items")
	s.BaseSuite.TruncateTable("menu_categories")
	s.BaseSuite.TruncateTable("admins")
	s.BaseSuite.TruncateTable("users")
	s.Require().NoError(s.RedisClient.FlushAll(s.Ctx).Err())

	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(s.DbPool, logger)
	adminRepo := repository.NewAdminRepository(s.DbPool, logger)
	orderRepo := repository.NewOrderRepository(s.DbPool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(s.DbPool, logger)
	menuRepo := repository.NewMenuRepository(s.DbPool, logger)
	outboxRepo := outboxRepository.NewOutboxRepository(s.DbPool, logger)

	s.Carts = cart.NewStore()
	s.Stash = checkout.NewRedisStash(s.RedisClient, 30*time.Minute)

	var err error
	s.TestProducer, err = kafka.NewProducer(s.KafkaBrokers)
	s.Require().NoError(err, "failed to create kafka producer")

	s.AuthService = service.NewAuthService(logger, userRepo, adminRepo, testSecurityCode)
	s.OrderService = service.NewOrderService(s.DbPool, logger, s.Carts, s.Stash, orderRepo, adminRepo, outboxRepo)
	s.SubscriptionService = service.NewSubscriptionService(logger, subscriptionRepo)
	s.MenuService = service.NewCachedMenuService(service.NewMenuService(logger, menuRepo), s.RedisClient)

	s.OutboxProcessor = worker.NewOutboxProcessor(s.DbPool, outboxRepo, s.TestProducer, logger)

	workerCtx, cancel := context.WithCancel(s.Ctx)
	s.workerCancel = cancel

	go s.OutboxProcessor.Start(workerCtx)
}

func (s *IntegrationTestSuite) TearDownTest() {
	if s.workerCancel != nil {
		s.workerCancel()
	}
	if s.TestProducer != nil {
		_ = s.TestProducer.Close()
	}
}

func (s *IntegrationTestSuite) seedUser(id int64, email string) {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash)
		VALUES ($1, 'Test', 'User', $2, '\x00') ON CONFLICT DO NOTHING
	`

	_, err := s.DbPool.Exec(s.Ctx, query, id, email)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) seedAdmin(email string) {
	query := `
		INSERT INTO admins (first_name, last_name, email)
		VALUES ('Test', 'Admin', $1) ON CONFLICT DO NOTHING
	`

	_, err := s.DbPool.Exec(s.Ctx, query, email)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) fillCart(userID int64, items ...domain.CartItem) {
	for _, item := range items {
		for q := int32(0); q < item.Quantity; q++ {
			s.Carts.Add(userID, domain.CartItem{
				ID:    item.ID,
				Name:  item.Name,
				Price: item.Price,
			})
		}
	}
}

func (s *IntegrationTestSuite) stashForm(userID int64) {
	err := s.Stash.Put(s.Ctx, userID, &checkout.FormData{
		FirstName:    "Priya",
		LastName:     "Sharma",
		AddressLine1: "12 Jasper Ave",
		City:         "Edmonton",
		Zipcode:      "T5J 0K7",
		Phone:        "780-555-0101",
		Email:        "priya@example.com",
	})
	s.Require().NoError(err)
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(IntegrationTestSuite))
}
