package api

import (
	"log"
	"net/http"
	"time"
)

// Pinger periodically requests the configured self URL so free-tier hosts
// don't idle the process out. Failures are logged and the next tick tries
// again.
type Pinger struct {
	url      string
	client   *http.Client
	interval time.Duration
	ticker   *time.Ticker
	stopChan chan struct{}
}

func NewPinger(url string) *Pinger {
	return &Pinger{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: 5 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

func (p *Pinger) Start() {
	if p.url == "" {
		log.Println("⚠️ SELF_URL non défini, ping automatique désactivé")
		return
	}
	log.Printf("🔄 Ping automatique activé vers %s toutes les 5 minutes", p.url)
	p.ticker = time.NewTicker(p.interval)
	go p.loop()
}

func (p *Pinger) Stop() {
	close(p.stopChan)
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Pinger) loop() {
	for {
		select {
		case <-p.ticker.C:
			p.tick()
		case <-p.stopChan:
			return
		}
	}
}

func (p *Pinger) tick() {
	resp, err := p.client.Get(p.url)
	if err != nil {
		log.Printf("[AUTO PING ERROR] Impossible de ping %s: %v", p.url, err)
		return
	}
	resp.Body.Close()
	log.Printf("[AUTO PING] Ping envoyé à %s - Status: %d", p.url, resp.StatusCode)
}
