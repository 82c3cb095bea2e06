package ingest

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramPoller drains a bot chat for Health Auto Export JSON
// attachments and saves them where the apple health ingestor will find
// them. The last-seen update id persists in a sidecar file so repeated
// polls never re-download.
type TelegramPoller struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	downloadDir string
	offsetPath  string
}

func NewTelegramPoller(token string, chatID int64, downloadDir string) (*TelegramPoller, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect bot: %w", err)
	}
	return &TelegramPoller{
		bot:         bot,
		chatID:      chatID,
		downloadDir: downloadDir,
		offsetPath:  filepath.Join(downloadDir, ".telegram_offset"),
	}, nil
}

// Poll fetches pending updates once and downloads any JSON documents.
// It returns the saved file paths.
func (p *TelegramPoller) Poll() ([]string, error) {
	u := tgbotapi.NewUpdate(p.loadOffset())
	u.Timeout = 10

	updates, err := p.bot.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("telegram: get updates: %w", err)
	}

	var saved []string
	maxID := 0
	for _, upd := range updates {
		if upd.UpdateID > maxID {
			maxID = upd.UpdateID
		}
		msg := upd.Message
		if msg == nil || msg.Document == nil {
			continue
		}
		if p.chatID != 0 && msg.Chat.ID != p.chatID {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".json") {
			continue
		}

		path, err := p.download(msg.Document)
		if err != nil {
			log.Printf("[telegram] skip %s: %v", msg.Document.FileName, err)
			continue
		}
		saved = append(saved, path)

		reply := tgbotapi.NewMessage(msg.Chat.ID, "got it: "+msg.Document.FileName)
		if _, err := p.bot.Send(reply); err != nil {
			log.Printf("[telegram] confirm failed: %v", err)
		}
	}

	if maxID > 0 {
		p.saveOffset(maxID + 1)
	}
	if len(saved) > 0 {
		log.Printf("[telegram] downloaded %d export files", len(saved))
	}
	return saved, nil
}

func (p *TelegramPoller) download(doc *tgbotapi.Document) (string, error) {
	url, err := p.bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %s", resp.Status)
	}

	if err := os.MkdirAll(p.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	name := time.Now().UTC().Format("20060102T150405") + "_" + filepath.Base(doc.FileName)
	path := filepath.Join(p.downloadDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return path, nil
}

func (p *TelegramPoller) loadOffset() int {
	raw, err := os.ReadFile(p.offsetPath)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0
	}
	return n
}

func (p *TelegramPoller) saveOffset(n int) {
	os.MkdirAll(p.downloadDir, 0o755)
	if err := os.WriteFile(p.offsetPath, []byte(strconv.Itoa(n)), 0o644); err != nil {
		log.Printf("[telegram] save offset: %v", err)
	}
}
