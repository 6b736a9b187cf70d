package database

import (
    "context"
    "database/sql"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection before returning.
// Dates and DATETIME columns come back as time.Time in UTC; the booking
// tables never store local times.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    dsn := mysql.Config{
        User:                 user,
        Passwd:               pass,
        Net:                  "tcp",
        Addr:                 host + ":" + port,
        DBName:               name,
        ParseTime:            true,
        Loc:                  time.UTC,
        AllowNativePasswords: true,
        Params:               map[string]string{"charset": "utf8mb4"},
    }

    db, err := sql.Open("mysql", dsn.FormatDSN())
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(10)
    db.SetConnMaxLifetime(30 * time.Minute)
    db.SetConnMaxIdleTime(5 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
