package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"funpaybot/internal/logger"
	"funpaybot/internal/models"
	sentryutil "funpaybot/internal/sentry"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the account list at path. A missing file yields an empty catalog
// and no error; unreadable or malformed content is returned as an error.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func Load(path string) ([]models.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("catalog: accounts file not found", map[string]interface{}{"path": path})
			sentryutil.CaptureWarning("catalog: accounts file not found", map[string]string{"component": "catalog", "path": path})
			return []models.Account{}, nil
		}
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	accounts, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	logger.Info("catalog: accounts loaded", map[string]interface{}{"path": path, "count": len(accounts)})
	return accounts, nil
}

func decode(path string, data []byte) ([]models.Account, error) {
	var accounts []models.Account
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &accounts); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &accounts); err != nil {
			return nil, err
		}
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}
