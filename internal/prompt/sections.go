package prompt

import (
	"postergen/internal/form"
)

func (c *Compiler) writeHeader(b *Builder, f form.EventForm) {
	palette := f.ThemeTone
	if f.CustomThemePrompt != "" {
		palette += " (" + f.CustomThemePrompt + ")"
	}

	b.Textf("Create a high-quality, professional event invitation poster for %s (%s).\n", c.brand.Organization, c.brand.Country)
	b.Text("\n**Format & Size:**\n")
	b.Textf("- Aspect Ratio: %s.\n", f.AspectRatio.Describe())
	b.Text("- Output Resolution: High Quality.\n")
	b.Text("\n**Design Style & Theme:**\n")
	b.Textf("- **Color Palette:** %s.\n", palette)
	b.Textf("- **Topic/Theme:** %s.\n", Topics(f))
	b.Text("- **Vibe:** Professional, Modern, Corporate, Reliable.\n")
}

func writeBackground(b *Builder, bg *Attachment) {
	if bg == nil {
		return
	}
	n := b.Attach(*bg)
	b.Text("\n**BACKGROUND INSTRUCTION:**\n")
	b.Textf("- Use the provided image (Image %d) as the **STRICT BACKGROUND REFERENCE**.\n", n)
	b.Text("- Keep the background patterns, colors, and layout structure of this reference image.\n")
	b.Text("- Place the new text and content on top of this background style.\n")
}

func writeContent(b *Builder, f form.EventForm) {
	format := "OFFLINE"
	if f.IsOnline {
		format = "TRỰC TUYẾN (ZOOM ONLINE)"
	}

	b.Text("\n**Content to Render (Must be legible and accurate):**\n\n")
	b.Textf("- **Event Type:** %q.\n", f.EventType)
	b.Text("  - **Placement:** Positioned DIRECTLY ABOVE the Event Title, and BELOW the top Logo.\n")
	b.Text("  - **Alignment:** Centered.\n")
	b.Text("  - **Style:** Normal font weight, standard size, elegant (NOT bold, NOT highlighted).\n\n")
	b.Textf("- **Event Title:** %q.\n", f.EventName)
	b.Text("  - **Visual Importance:** This must be the **MOST PROMINENT** element on the poster.\n")
	b.Text("  - **Typography:** Use **massive, bold, 3D or creative display fonts**.\n")
	b.Text("  - **Effects:** Apply professional text effects appropriate for the theme (e.g., Metallic Gold, Neon Glow, Drop Shadows, Gradient Fill).\n")
	b.Text("  - **Instruction:** Make the title visually \"pop\" off the background.\n\n")
	b.Textf("- **Time & Date:** %s | %s.\n", f.Time, f.Date)
	b.Textf("- **Format:** %s.\n", format)

	// Online events are announced by format only.
	if !f.IsOnline {
		b.Textf("- **Location:** %s.\n", f.LocationOrPlatform)
	}
}

func writeAgenda(b *Builder, agenda []form.AgendaItem) {
	if len(agenda) == 0 {
		return
	}
	b.Text("\n**PROGRAM AGENDA (Section Title: \"CHƯƠNG TRÌNH\"):**\n")
	b.Text("- Render a section titled \"CHƯƠNG TRÌNH\" (or \"AGENDA\").\n")
	b.Text("- Layout: Use a 2-column list layout.\n")
	b.Text("  - **Left Column:** Time slots (Align: Left).\n")
	b.Text("  - **Right Column:** Activities (Align: Left, starts immediately after time).\n")
	b.Text("  - **Text Alignment:** The text content for activities should be **JUSTIFIED** (aligned to both left and right edges if multi-line).\n")
	b.Text("- Content to render (Note: Make the Activity content **BOLD**):\n")
	for _, item := range agenda {
		b.Textf("  - %s : **%s**\n", item.Time, item.Activity)
	}
}

func writeContact(b *Builder, f form.EventForm) {
	b.Textf("\n- **Đối tượng tham gia:** %s.\n", f.TargetAudience)
	b.Textf("- **Contact Section:** Bottom area. \"Liên hệ: %s - %s - %s\".\n", f.ContactName, f.ContactPhone, f.ContactEmail)
	b.Text("  - **Style:** LARGE, BOLD, highly readable text.\n")
	b.Text("  - If contact details are empty, leave a Wide, Spacious area with large placeholder lines.\n")
	b.Text("\n**Logos & Branding Placement Instructions:**\n")
}

// writeBranding emits exactly one of: per-logo placement for custom logos,
// a generic custom-branding fallback, the fetched default logo, or the
// text-only default logo description.
func (c *Compiler) writeBranding(b *Builder, f form.EventForm, in *loaded) {
	if f.UseBrandLogo {
		if in.organizer == nil && in.product == nil && in.coOrganizer == nil {
			b.Text("\n**BRANDING:**\n")
			b.Text("- Place any provided text logos at the top.\n")
			return
		}

		b.Text("I have provided logo images. You must strictly follow these rules:\n")
		b.Text("1. **CRITICAL:** Do NOT redesign, recolor, or alter the text inside the provided logos. Use them exactly as provided.\n")
		b.Text("2. If a logo is **negative/white**: Place it DIRECTLY on the poster background.\n")
		b.Text("3. If a logo is **positive/colored**: Place it on a clean **WHITE RECTANGULAR BLOCK**.\n")

		for _, logo := range []struct {
			att     *Attachment
			heading string
			caption string
		}{
			{in.organizer, "Organizer Logo", "Đơn vị tổ chức"},
			{in.product, "Partner Product Logo", "Sản phẩm đồng hành"},
			{in.coOrganizer, "Co-Organizer Logo", "Đơn vị phối hợp"},
		} {
			if logo.att == nil {
				continue
			}
			n := b.Attach(*logo.att)
			b.Textf("- **%s**: See Image %d. Add the small text %q ABOVE this logo.\n", logo.heading, n, logo.caption)
		}
		return
	}

	if in.defaultLogo != nil {
		n := b.Attach(*in.defaultLogo)
		b.Text("\n**DEFAULT BRANDING:**\n")
		b.Textf("- No custom logos provided. Use the %s Logo (See Image %d).\n", c.brand.Organization, n)
		b.Text("- Place this logo at the **TOP CENTER** of the design.\n")
		b.Text("- Place it on a clean **WHITE RECTANGULAR BLOCK** to ensure visibility against any background color.\n")
		return
	}

	b.Text("\n**DEFAULT BRANDING:**\n")
	b.Textf("- Place the %q logo at the top center.\n", c.brand.Organization)
	b.Textf("- Text: %q (Bold, Black) with Slogan %q.\n", c.brand.Organization, c.brand.Slogan)
	b.Text("- Place on a white block.\n")
}

func writeQRCode(b *Builder, include bool, qr *Attachment) {
	b.Text("\n**QR Code:**\n")
	switch {
	case !include:
		b.Text("- Do NOT include any QR code or QR code placeholder.\n")
	case qr == nil:
		b.Text("- Create a clean white square placeholder box for a QR Code. Include the text \"Đăng ký ngay\" immediately below this placeholder.\n")
	default:
		n := b.Attach(*qr)
		b.Textf("- See Image %d. Place this QR code clearly at the bottom or corner. Include the text \"Đăng ký ngay\" immediately below the QR code.\n", n)
	}
}

func writeSpeakers(b *Builder, speakers []form.Speaker, images []*Attachment) {
	b.Text("\n**Speakers:**\n")
	b.Text("Include the following speakers. High-quality integration.\n")

	for i, s := range speakers {
		b.Textf("- Speaker %d: Name %q, Title %q", i+1, s.Name, s.Title)
		if s.Company != "" {
			b.Textf(", Company %q.", s.Company)
		} else {
			b.Text(".")
		}

		if img := images[i]; img != nil {
			n := b.Attach(*img)
			b.Textf(" [See Image %d for Speaker %d reference].", n, i+1)
			if s.EditPrompt != "" {
				b.Textf(" EDIT INSTRUCTION: Strictly preserve face/identity. Modify attire/pose to: %s.", s.EditPrompt)
			} else {
				b.Text(" Preserve the face and identity of this speaker exactly.")
			}
			if s.RemoveBackground {
				b.Text(" Remove background, integrate seamlessly.")
			}
		} else {
			b.Text(" (No reference image provided, generate a generic professional avatar).")
		}
		b.Text("\n")
	}
}
