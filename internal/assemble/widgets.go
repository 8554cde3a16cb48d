package assemble

// Interactive widget markup embedded in place of the widget tokens. The
// matching behavior lives in js/widgets.js.

const beaufortWidget = `<div class="widget-embed">
  <div class="widget-beaufort">
    <h3>Beaufort-Skala interaktiv</h3>
    <div class="beaufort-display">
      <div class="beaufort-number">0</div>
      <div class="beaufort-name">Windstille</div>
    </div>
    <input type="range" class="beaufort-slider" min="0" max="12" value="0" step="1">
    <div class="beaufort-details">
      <div class="beaufort-detail"><div class="beaufort-detail-label">Wind</div><div class="beaufort-detail-value" data-field="wind-kn">&lt; 1 kn</div></div>
      <div class="beaufort-detail"><div class="beaufort-detail-label">Geschwindigkeit</div><div class="beaufort-detail-value" data-field="wind-ms">0-0.2 m/s</div></div>
      <div class="beaufort-detail"><div class="beaufort-detail-label">Wellenhoehe</div><div class="beaufort-detail-value" data-field="wave">0 m</div></div>
    </div>
    <p class="beaufort-desc">Spiegelglatte See, Rauch steigt senkrecht auf.</p>
  </div>
</div>`

const calculatorWidget = `<div class="widget-embed">
  <div class="widget-calculator">
    <h3>Seemeilen-Rechner</h3>
    <div class="calc-row">
      <input type="number" class="calc-input" data-unit="sm" placeholder="Seemeilen" step="0.1">
      <span class="calc-label">sm</span>
    </div>
    <div class="calc-row">
      <input type="number" class="calc-input" data-unit="km" placeholder="Kilometer" step="0.1">
      <span class="calc-label">km</span>
    </div>
    <p class="calc-note">1 Seemeile = 1,852 km</p>
  </div>
</div>`
