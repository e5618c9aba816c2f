package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// WhatsAppClient wraps one paired WhatsApp device belonging to a tenant.
// It is used send-only: lead and order alerts are delivered to the paired
// account itself.
type WhatsAppClient struct {
	Client   *whatsmeow.Client
	TenantID string

	qrCode string
	qrLock sync.RWMutex
}

func NewWhatsAppClient(dbPath, tenantID string) (*WhatsAppClient, error) {
	dbLog := waLog.Stdout("Database", "ERROR", true)
	container, err := sqlstore.New(context.Background(), "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	clientLog := waLog.Stdout("Client", "ERROR", true)
	client := whatsmeow.NewClient(deviceStore, clientLog)

	return &WhatsAppClient{
		Client:   client,
		TenantID: tenantID,
	}, nil
}

// Connect connects the device, starting a QR pairing flow when the device
// has never been linked.
func (w *WhatsAppClient) Connect() error {
	if w.Client.Store.ID == nil {
		qrChan, _ := w.Client.GetQRChannel(context.Background())
		if err := w.Client.Connect(); err != nil {
			return err
		}
		go w.collectQR(qrChan)
		return nil
	}
	return w.Client.Connect()
}

func (w *WhatsAppClient) collectQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		if evt.Event == "code" {
			w.qrLock.Lock()
			w.qrCode = evt.Code
			w.qrLock.Unlock()
		}
	}
}

// GetQR returns the current pairing code, empty when none is pending.
func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

func (w *WhatsAppClient) IsLoggedIn() bool {
	return w.Client.Store.ID != nil
}

func (w *WhatsAppClient) IsConnected() bool {
	return w.Client.IsConnected() && w.Client.Store.ID != nil
}

// PairedInfo returns the phone number and push name of the linked account.
func (w *WhatsAppClient) PairedInfo() (string, string) {
	if w.Client.Store.ID == nil {
		return "", ""
	}
	return w.Client.Store.ID.User, w.Client.Store.PushName
}

// SendToSelf delivers an alert to the paired account's own chat.
func (w *WhatsAppClient) SendToSelf(ctx context.Context, content string) error {
	if w.Client.Store.ID == nil {
		return fmt.Errorf("device not paired")
	}
	jid := types.NewJID(w.Client.Store.ID.User, types.DefaultUserServer)
	_, err := w.Client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: &content,
	})
	return err
}

// Logout unlinks the device and starts a fresh pairing flow.
func (w *WhatsAppClient) Logout() error {
	w.qrLock.Lock()
	w.qrCode = ""
	w.qrLock.Unlock()

	if err := w.Client.Logout(context.Background()); err != nil {
		return err
	}
	w.Client.Disconnect()

	qrChan, _ := w.Client.GetQRChannel(context.Background())
	if err := w.Client.Connect(); err != nil {
		return err
	}
	go w.collectQR(qrChan)
	return nil
}

func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}
