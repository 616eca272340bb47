package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pension-backend/models"
)

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	cfg := baseMySQLConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Addr = net.JoinHostPort(u.Hostname(), port)
	cfg.DBName = dbName

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "parseTime", "loc":
		default:
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), dbName, nil
}

func baseMySQLConfig() *mysqldriver.Config {
	cfg := mysqldriver.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true
	// stay dates are UTC midnights on both sides of the driver
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

// ResolveMySQLDSN prefers MYSQL_URL, then DATABASE_URL, then the DB_* parts.
func ResolveMySQLDSN(s *Settings) (string, string, error) {
	raw := strings.TrimSpace(s.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(s.DatabaseURL)
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, s.DBName, nil
	}

	cfg := baseMySQLConfig()
	cfg.User = s.DBUser
	cfg.Passwd = s.DBPass
	cfg.Addr = net.JoinHostPort(s.DBHost, s.DBPort)
	cfg.DBName = s.DBName
	return cfg.FormatDSN(), s.DBName, nil
}

// ConnectDatabase opens MySQL, migrates the schema and seeds demo rows when
// the tables are empty.
func ConnectDatabase(s *Settings, log *logrus.Logger) (*gorm.DB, error) {
	dsn, dbName, err := ResolveMySQLDSN(s)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: GormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbName, err)
	}

	if err := db.AutoMigrate(
		&models.HotelSetting{},
		&models.Room{},
		&models.RoomMedia{},
		&models.RoomReview{},
		&models.Booking{},
		&models.Payment{},
		&models.ContactInfo{},
		&models.SocialLink{},
		&models.ServiceGalleryItem{},
		&models.ContactMessage{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if s.SeedDemo {
		SeedDatabase(db, log)
	}
	return db, nil
}

func GormLogger(l *logrus.Logger) logger.Interface {
	level := logger.Warn
	if l.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}
	return logger.New(
		log.New(l.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
