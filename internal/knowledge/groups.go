package knowledge

// DefaultGroups returns the Sanatorio San Juan knowledge base, in match order.
func DefaultGroups() []Group {
	return []Group{
		{
			Name:     "greeting",
			Keywords: []string{"hola", "buen dia", "buenas", "inicio", "empezar"},
			Reply:    "¡Hola! 👋 Es un placer saludarte. Soy el asistente virtual del Sanatorio San Juan y estoy aquí para ayudarte con toda la información que necesites. Puedo asistirte con turnos, horarios, especialidades, obras sociales y mucho más. ¿En qué puedo ayudarte hoy?",
		},
		{
			Name:     "appointments",
			Keywords: []string{"turno", "cita", "reservar", "sacar", "doctor", "agendar"},
			Reply: "¡Por supuesto! Te comento las opciones para solicitar tu turno: \n\n" +
				"1. **Portal del Paciente** - La forma más rápida y sencilla (botón verde en la parte superior de la página). \n" +
				"2. **Call Center** - Llámanos al **0800-SANJUAN** (7265) y nuestro equipo te ayudará con gusto. \n" +
				"3. **WhatsApp** - Escríbenos al **264-1234567** para gestionar tu turno. \n\n" +
				"¿Te gustaría que te guíe en alguna de estas opciones?",
		},
		{
			Name:     "specialties",
			Keywords: []string{"especialidad", "medico", "cardiologia", "pediatria", "clinica", "servicios", "traumatologia", "especialidades"},
			Reply: "Excelente pregunta. En el Sanatorio San Juan contamos con más de **50 especialidades médicas** para brindarte la mejor atención. " +
				"Entre ellas destacamos: Cardiología, Pediatría, Obstetricia, Traumatología, Neurología, Cirugía General, Ginecología, Urología, Gastroenterología y muchas más. \n\n" +
				"Además, disponemos de un servicio de **Diagnóstico por Imágenes** de alta complejidad con tecnología de última generación. ¿Hay alguna especialidad en particular que te interese?",
		},
		{
			Name:     "location",
			Keywords: []string{"ubicacion", "donde", "llegar", "direccion", "calle", "mapa", "dirección"},
			Reply: "Con mucho gusto te indico nuestra ubicación. Nuestra **Sede Central** se encuentra en **Gral. Juan Lavalle 735, J5400 San Juan**. \n\n" +
				"Para tu comodidad, contamos con **estacionamiento exclusivo** para pacientes por calle lateral. Si necesitas ver el mapa o indicaciones detalladas, puedes usar el botón **'Cómo Llegar'** en la portada de nuestra página web. ¿Te gustaría que te proporcione más información sobre cómo llegar?",
		},
		{
			Name:     "emergency",
			Keywords: []string{"guardia", "urgencia", "emergencia", "dolor", "urgencias"},
			Reply: "Nuestra **Guardia Médica funciona las 24 horas**, los 365 días del año, para estar siempre disponibles cuando nos necesites. Atendemos tanto urgencias de **Adultos** como **Pediátricas** con un equipo médico altamente capacitado. \n\n" +
				"⚠️ **Importante:** Si estás experimentando una emergencia de riesgo de vida, por favor llama inmediatamente al **107** o acude directamente a nuestra guardia. Tu salud es nuestra prioridad.",
		},
		{
			Name:     "insurance",
			Keywords: []string{"obra social", "prepaga", "cobertura", "osde", "swiss", "provincia", "pami", "obra"},
			Reply: "Trabajamos con las principales obras sociales y prepagas del país para facilitar tu acceso a nuestros servicios. Entre ellas se encuentran: Obra Social Provincia, OSDE, Swiss Medical, Galeno, Sancor Salud, PAMI y muchas otras. \n\n" +
				"Para consultar si tu obra social o prepaga tiene cobertura con nosotros, o para obtener información específica sobre tu plan, te recomiendo contactar a nuestro departamento de administración al **0264-4222222**. Ellos te brindarán toda la información detallada. ¿Te gustaría que te ayude con algo más?",
		},
		{
			Name:     "hours",
			Keywords: []string{"horario", "atencion", "abierto", "hora", "horarios"},
			Reply: "Te comparto nuestros horarios de atención para que puedas planificar tu visita: \n\n" +
				"• **Guardia:** 24 horas, todos los días \n" +
				"• **Laboratorio:** Lunes a Viernes de 7:00 a 20:00 hs \n" +
				"• **Consultorios Externos:** Lunes a Viernes de 8:00 a 21:00 hs \n" +
				"• **Visitas a Internación:** Todos los días de 11:00 a 13:00 hs y de 17:00 a 19:00 hs \n\n" +
				"¿Necesitas información sobre algún servicio en particular?",
		},
		{
			Name:     "laboratory",
			Keywords: []string{"laboratorio", "analisis", "sangre", "resultados", "estudios"},
			Reply: "Nuestro laboratorio atiende por orden de llegada de **7:00 a 10:00 hs** para las extracciones. La buena noticia es que puedes descargar tus resultados directamente desde nuestra página web en la sección **'Resultados Online'**, sin necesidad de venir personalmente a buscarlos. \n\n" +
				"Esto te ahorra tiempo y te permite acceder a tus estudios desde la comodidad de tu hogar. ¿Hay algo más en lo que pueda ayudarte?",
		},
		{
			Name:     "contact",
			Keywords: []string{"telefono", "contacto", "llamar", "numero", "whatsapp", "teléfono"},
			Reply: "Estamos aquí para ayudarte. Puedes contactarnos a través de cualquiera de estos canales: \n\n" +
				"• **Teléfono gratuito:** 0800-SANJUAN (7265) \n" +
				"• **WhatsApp para Turnos:** 264-1234567 \n" +
				"• **Conmutador:** 0264-4222222 \n" +
				"• **Email:** info@sanatoriosanjuan.com \n\n" +
				"Nuestro equipo está disponible para responder todas tus consultas. ¿En qué más puedo asistirte?",
		},
		{
			Name:     "technology",
			Keywords: []string{"tecnologia", "tomografo", "equipo", "resonancia", "tecnología", "equipos"},
			Reply: "Nos enorgullece contar con tecnología médica de vanguardia. Contamos con el **tomógrafo Philips Brilliance de 64 cortes**, único en la región, que nos permite realizar diagnósticos cardíacos y cerebrales de altísima precisión en cuestión de segundos. \n\n" +
				"Además, disponemos de **Resonancia Magnética** y **Ecografía 4D** para brindarte los mejores estudios diagnósticos. Nuestro compromiso es ofrecerte la mejor tecnología al servicio de tu salud. ¿Te gustaría conocer más sobre alguno de estos estudios?",
		},
	}
}
