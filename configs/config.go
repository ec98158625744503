package configs

import (
	"os"

	"anket.link/configs/configsdatabase"
	"anket.link/configs/configslog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// LoadEnv .env dosyasını yükler. Dosya yoksa sessizce devam edilir
// (production'da değişkenler ortamdan gelir).
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug(".env dosyası bulunamadı, ortam değişkenleri kullanılacak.")
	}
}

// GetDB servis ve repository katmanının kullandığı DB örneğini döndürür.
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}

// AppPort HTTP sunucusunun dinleyeceği portu döndürür.
func AppPort() string {
	if port := os.Getenv("APP_PORT"); port != "" {
		return ":" + port
	}
	return ":3000"
}
