package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"project_ria/internal/entities"
)

// WhatsAppManager manages per-tenant paired WhatsApp devices and acts as an
// alert sink for tenants that have completed pairing.
type WhatsAppManager struct {
	clients map[string]*WhatsAppClient
	mu      sync.RWMutex
	baseDir string
}

func NewWhatsAppManager(baseDir string) *WhatsAppManager {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		fmt.Printf("Warning: could not create devices directory: %v\n", err)
	}
	return &WhatsAppManager{
		clients: make(map[string]*WhatsAppClient),
		baseDir: baseDir,
	}
}

// GetClient returns the existing client for a tenant, nil if none.
func (m *WhatsAppManager) GetClient(tenantID string) *WhatsAppClient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[tenantID]
}

// GetOrCreateClient returns the tenant's client, creating its device store
// on first use.
func (m *WhatsAppManager) GetOrCreateClient(tenantID string) (*WhatsAppClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[tenantID]; exists {
		return client, nil
	}

	dbPath := filepath.Join(m.baseDir, fmt.Sprintf("tenant_%s.db", tenantID))
	client, err := NewWhatsAppClient(dbPath, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp client for tenant %s: %w", tenantID, err)
	}

	m.clients[tenantID] = client
	return client, nil
}

// ConnectClient connects the tenant's device, creating it if needed.
func (m *WhatsAppManager) ConnectClient(tenantID string) (*WhatsAppClient, error) {
	client, err := m.GetOrCreateClient(tenantID)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect WhatsApp for tenant %s: %w", tenantID, err)
	}
	return client, nil
}

// LogoutClient unlinks the tenant's device. Nil or already-unlinked clients
// are treated as success.
func (m *WhatsAppManager) LogoutClient(tenantID string) error {
	m.mu.RLock()
	client, exists := m.clients[tenantID]
	m.mu.RUnlock()

	if !exists || client == nil {
		return nil
	}

	if !client.IsLoggedIn() && !client.Client.IsConnected() {
		m.mu.Lock()
		delete(m.clients, tenantID)
		m.mu.Unlock()
		return nil
	}

	err := client.Logout()

	m.mu.Lock()
	delete(m.clients, tenantID)
	m.mu.Unlock()

	return err
}

// DisconnectAll disconnects every client for shutdown.
func (m *WhatsAppManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		client.Disconnect()
	}
	m.clients = make(map[string]*WhatsAppClient)
}

func (m *WhatsAppManager) Name() string {
	return "whatsapp"
}

// SendAlert implements the alert sink over the tenant's paired device.
func (m *WhatsAppManager) SendAlert(ctx context.Context, tenant *entities.Tenant, text string) error {
	client := m.GetClient(tenant.ID)
	if client == nil || !client.IsConnected() {
		return fmt.Errorf("tenant %s has no connected WhatsApp device", tenant.ID)
	}
	return client.SendToSelf(ctx, text)
}
